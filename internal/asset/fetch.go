// Package asset downloads the card's remote media: sound effects, music and
// poem images.
package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxSize caps a single download.
const MaxSize = 16 << 20

// Fetcher downloads assets over HTTP.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
	limit  int
}

// NewFetcher returns a Fetcher. A nil client uses http.DefaultClient and a
// nil logger discards output.
func NewFetcher(client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger, limit: 4}
}

// Fetch downloads url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("get %s: larger than %d bytes", url, MaxSize)
	}
	return data, nil
}

// FetchAll downloads every url concurrently under timeout and returns the
// bodies that arrived, keyed like urls. Failures are logged and left out;
// FetchAll itself never fails.
func (f *Fetcher) FetchAll(ctx context.Context, urls map[string]string, timeout time.Duration) map[string][]byte {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var (
		mu  sync.Mutex
		out = make(map[string][]byte, len(urls))
		g   errgroup.Group
	)
	g.SetLimit(f.limit)
	for key, url := range urls {
		g.Go(func() error {
			data, err := f.Fetch(ctx, url)
			if err != nil {
				f.logger.Warn("asset unavailable", zap.String("asset", key), zap.Error(err))
				return nil
			}
			mu.Lock()
			out[key] = data
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
