package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/mock"
	pagemarkslog "github.com/pagemark/pagemark/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("logs sizes at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Normalizer{
			NormalizeFn: func(html string, mode pagemark.ProcessingMode) (string, error) {
				return "Hello", nil
			},
		}

		n := pagemarkslog.NewLoggingNormalizer(inner, logger)
		out, err := n.Normalize("<p>Hello</p>", pagemark.ModeFullPage)

		require.NoError(t, err)
		assert.Equal(t, "Hello", out)
		output := buf.String()
		assert.Contains(t, output, "normalize")
		assert.Contains(t, output, "mode=full_page_strip_tags")
		assert.Contains(t, output, "in_bytes=12")
		assert.Contains(t, output, "out_bytes=5")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Normalizer{
			NormalizeFn: func(html string, mode pagemark.ProcessingMode) (string, error) {
				return "", pagemark.Errorf(pagemark.EINVALID, "bad mode")
			},
		}

		n := pagemarkslog.NewLoggingNormalizer(inner, logger)
		_, err := n.Normalize("<p>Hello</p>", pagemark.ModeExternalAPI)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=")
	})
}
