package events

import (
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

const (
	TopicUpstreamReport  = "upstream-report"
	TopicUpstreamReports = "upstream-reports"
)

// Bus is an in-process, synchronous publish/subscribe registry for check
// reports. Handlers run in registration order; a handler that panics is
// logged and does not keep the others from receiving the event.
type Bus struct {
	mu             sync.RWMutex
	reportHandlers []func(entities.CheckReport)
	batchHandlers  []func([]entities.CheckReport)
}

var _ repositories.ReportPublisher = (*Bus)(nil)

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeReport registers a handler for every individual report.
func (b *Bus) SubscribeReport(handler func(entities.CheckReport)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reportHandlers = append(b.reportHandlers, handler)
}

// SubscribeReports registers a handler for the report batch of each cycle.
func (b *Bus) SubscribeReports(handler func([]entities.CheckReport)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batchHandlers = append(b.batchHandlers, handler)
}

// PublishReport delivers one report to every report handler.
func (b *Bus) PublishReport(report entities.CheckReport) {
	b.mu.RLock()
	handlers := append([]func(entities.CheckReport){}, b.reportHandlers...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		deliver(TopicUpstreamReport, func() { handler(report) })
	}
}

// PublishReports delivers a cycle's reports to every batch handler.
func (b *Bus) PublishReports(reports []entities.CheckReport) {
	b.mu.RLock()
	handlers := append([]func([]entities.CheckReport){}, b.batchHandlers...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		deliver(TopicUpstreamReports, func() { handler(reports) })
	}
}

func deliver(topic string, call func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Subscriber of %q failed: %v", topic, r)
		}
	}()
	call()
}
