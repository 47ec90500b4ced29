package slog

import (
	"log/slog"
	"time"

	"github.com/pagemark/pagemark"
)

// Ensure LoggingNormalizer implements pagemark.Normalizer.
var _ pagemark.Normalizer = (*LoggingNormalizer)(nil)

// LoggingNormalizer wraps a Normalizer with debug logging of how much each
// pass shrank the input.
type LoggingNormalizer struct {
	next   pagemark.Normalizer
	logger *slog.Logger
}

// NewLoggingNormalizer creates a new LoggingNormalizer.
func NewLoggingNormalizer(next pagemark.Normalizer, logger *slog.Logger) *LoggingNormalizer {
	return &LoggingNormalizer{next: next, logger: logger}
}

// Normalize delegates to the wrapped normalizer, logging input and output
// sizes and duration.
func (n *LoggingNormalizer) Normalize(html string, mode pagemark.ProcessingMode) (string, error) {
	begin := time.Now()
	out, err := n.next.Normalize(html, mode)
	if err != nil {
		n.logger.Error("normalize",
			"mode", mode,
			"in_bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
		return "", err
	}

	n.logger.Debug("normalize",
		"mode", mode,
		"in_bytes", len(html),
		"out_bytes", len(out),
		"duration", time.Since(begin),
	)
	return out, nil
}
