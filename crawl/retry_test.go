package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/docsite"
	"github.com/fwojciec/docsite/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDelays = []time.Duration{0, 0, 0}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(ctx context.Context, url string) (string, error) {
			if calls.Add(1) < 3 {
				return "", errors.New("connection reset")
			}
			return "<html></html>", nil
		}

		html, err := crawl.FetchWithRetry(context.Background(), "https://doc.example.com/", fetch, noDelays, nil)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after all delays", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(ctx context.Context, url string) (string, error) {
			calls.Add(1)
			return "", errors.New("HTTP 503")
		}

		_, err := crawl.FetchWithRetry(context.Background(), "https://doc.example.com/", fetch, noDelays, nil)

		require.EqualError(t, err, "HTTP 503")
		assert.Equal(t, int32(4), calls.Load())
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetch := func(ctx context.Context, url string) (string, error) {
			calls.Add(1)
			return "", docsite.Errorf(docsite.ENOTFOUND, "page not found: %s", url)
		}

		_, err := crawl.FetchWithRetry(context.Background(), "https://doc.example.com/gone", fetch, noDelays, nil)

		assert.Equal(t, docsite.ENOTFOUND, docsite.ErrorCode(err))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("logs each retry", func(t *testing.T) {
		t.Parallel()

		var logged []string
		fetch := func(ctx context.Context, url string) (string, error) {
			return "", errors.New("timeout")
		}
		logf := func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		}

		_, _ = crawl.FetchWithRetry(context.Background(), "https://doc.example.com/", fetch, []time.Duration{0, 0}, logf)

		assert.Equal(t, []string{
			"retry https://doc.example.com/ (attempt 2): timeout",
			"retry https://doc.example.com/ (attempt 3): timeout",
		}, logged)
	})

	t.Run("stops when context is cancelled during backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}

		_, err := crawl.FetchWithRetry(ctx, "https://doc.example.com/", fetch, []time.Duration{time.Hour}, nil)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
