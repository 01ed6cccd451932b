package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/distill"
	main "github.com/fwojciec/distill/cmd/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdServe(t *testing.T) {
	t.Parallel()

	t.Run("stops when the context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var stdout, stderr bytes.Buffer

		err := main.NewMain().Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}, &stdout, &stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Listening on 127.0.0.1:")
	})

	t.Run("reports an unusable address", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, "", "serve", "--addr", "not-an-address")

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
		assert.Contains(t, stderr, "listen on not-an-address")
	})
}
