package relay

import (
	"context"

	"go.uber.org/zap"
)

// LogRelay accepts every submission and only logs it. Useful for local
// development and dry runs.
type LogRelay struct {
	logger *zap.Logger
}

// NewLogRelay returns a dry-run relay.
func NewLogRelay(logger *zap.Logger) *LogRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogRelay{logger: logger}
}

// Send logs the submission and reports success.
func (r *LogRelay) Send(_ context.Context, sub Submission) error {
	r.logger.Info("dry-run relay: submission accepted",
		zap.String("submission_id", sub.ID),
		zap.String("subject", sub.Subject),
		zap.Int("fields", sub.Record.Len()),
		zap.String("report", sub.Report),
	)
	return nil
}
