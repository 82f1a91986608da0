package render

import "github.com/rs/zerolog"

// LogSink logs controller events at debug level
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink creates a sink that writes to log
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "render").Logger()}
}

// OnReset logs a new display list
func (s *LogSink) OnReset(es EmptyState) {
	s.log.Debug().
		Uint64("generation", es.Generation).
		Int("total", es.Total).
		Str("reason", es.Reason.String()).
		Msg("Display list reset")
}

// OnBatch logs a rendered batch
func (s *LogSink) OnBatch(b Batch) {
	s.log.Debug().
		Uint64("generation", b.Generation).
		Int("start", b.Start).
		Int("count", len(b.Items)).
		Bool("has_more", b.HasMore).
		Msg("Batch rendered")
}
