package loop

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSize() (int, int, error) { return 80, 24, nil }

func TestRunQuitsOnQ(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader(" q"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(context.Background(), r, &out, Options{Seed: 1, TermSizeFunc: fixedSize})
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	assert.NotEmpty(t, out.String())
}
