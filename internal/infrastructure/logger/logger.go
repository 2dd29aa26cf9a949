package logger

import (
	"context"

	"github.com/dagligdags/backend/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON production logger at the given level ("debug", "info", ...).
// Unknown levels fall back to info.
func New(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

// MatchLog writes ranking summaries to a zap logger
type MatchLog struct {
	logger *zap.Logger
}

// NewMatchLog creates a match logger; a nil logger discards summaries
func NewMatchLog(logger *zap.Logger) *MatchLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchLog{logger: logger.Named("matching")}
}

// LogMatch records one ranking summary
func (l *MatchLog) LogMatch(ctx context.Context, summary domain.MatchSummary) {
	l.logger.Info("deal match summary",
		zap.String("user_id", summary.UserID),
		zap.Int("deals_found", summary.DealsFound),
		zap.Float64("avg_score", summary.AverageScore),
	)
}
