package main_test

import (
	"bytes"
	"context"
	"testing"

	main "github.com/pagemark/pagemark/cmd/pagemark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help and errors", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := main.NewMain()

		err := m.Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help flag succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := main.NewMain()

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "pagemark")
	})

	t.Run("unknown command errors", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		m := main.NewMain()

		err := m.Run(context.Background(), []string{"explode"}, stdout, stderr)

		require.Error(t, err)
	})
}
