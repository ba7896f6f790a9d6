//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/upstreamwatch/internal/domain/entities"
	"github.com/rios0rios0/upstreamwatch/internal/domain/repositories"
)

// SpyReportPublisher implements repositories.ReportPublisher and records
// every publication along with its topic order.
type SpyReportPublisher struct {
	Reports []entities.CheckReport
	Batches [][]entities.CheckReport
	// spy: "report" or "batch", in publication order
	Topics []string
}

var _ repositories.ReportPublisher = (*SpyReportPublisher)(nil)

func (s *SpyReportPublisher) PublishReport(report entities.CheckReport) {
	s.Reports = append(s.Reports, report)
	s.Topics = append(s.Topics, "report")
}

func (s *SpyReportPublisher) PublishReports(reports []entities.CheckReport) {
	s.Batches = append(s.Batches, reports)
	s.Topics = append(s.Topics, "batch")
}
