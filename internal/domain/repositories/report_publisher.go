package repositories

import "github.com/rios0rios0/upstreamwatch/internal/domain/entities"

// ReportPublisher fans check reports out to subscribers. Individual reports
// are published before the batch that contains them.
type ReportPublisher interface {
	PublishReport(report entities.CheckReport)
	PublishReports(reports []entities.CheckReport)
}
