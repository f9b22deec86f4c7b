package hermes

import (
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

// SanityReporter publishes sanity violations as events. Publish failures are
// logged and dropped.
type SanityReporter struct {
	client Client
	logger *slog.Logger
}

func NewSanityReporter(c Client, logger *slog.Logger) *SanityReporter {
	return &SanityReporter{client: c, logger: logger}
}

func (r *SanityReporter) ReportViolation(v scoring.SanityViolation) {
	if r.client == nil {
		return
	}
	err := r.client.Publish(SubjectSanityFailed(v.Region), SanityFailedEvent{
		Region:         v.Region,
		Period:         v.Period,
		Share:          v.Share,
		MissingColumns: v.MissingColumns,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn("failed to publish sanity violation", "region", v.Region, "error", err)
	}
}
