package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// Sample CSV documents shaped like the files the collector writes.
const (
	StockCSV = `date,nasdaq,sp500,fear_greed
2024-01-01,15000,4700,50
2024-01-02,15150,4747,60
2024-01-03,14850,4653,40
2024-01-04,15300,4794,
2024-01-05,15450,4841,80
`

	CoinCSV = `date,crypto_fear_greed,btc,eth,sol,xrp
2024-01-01,20,42000,2300,100,0.6
2024-01-02,30,43000,2350,,0.61
2024-01-03,,44000,2400,105,0.62
2024-01-04,70,45000,2450,110,0.63
`

	BTCPremiumCSV = `date,premium_percent
2024-01-02,2.5
2024-01-03,3.1
2024-01-04,-0.4
`

	GoldCSV = `date,premium_percent
2024-01-03,1.2
2024-01-04,1.5
`
)

// DefaultSourceFiles maps the default source names to the paths used by
// SampleFetcher.
var DefaultSourceFiles = map[string]string{
	"stock":       "stock.csv",
	"coin":        "coin.csv",
	"btc_premium": "as-is/btc_premium.csv",
	"gold":        "gold.csv",
}

// MapFetcher serves documents from memory keyed by path.
type MapFetcher struct {
	mu    sync.Mutex
	Files map[string]string
	Errs  map[string]error
	Calls map[string]int
}

// NewMapFetcher returns a fetcher holding files.
func NewMapFetcher(files map[string]string) *MapFetcher {
	return &MapFetcher{
		Files: files,
		Errs:  make(map[string]error),
		Calls: make(map[string]int),
	}
}

// SampleFetcher serves the sample CSVs at DefaultSourceFiles paths.
func SampleFetcher() *MapFetcher {
	return NewMapFetcher(map[string]string{
		"stock.csv":             StockCSV,
		"coin.csv":              CoinCSV,
		"as-is/btc_premium.csv": BTCPremiumCSV,
		"gold.csv":              GoldCSV,
	})
}

// Fetch returns the stored document or the configured error.
func (f *MapFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[path]++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errs[path]; ok {
		return nil, err
	}
	body, ok := f.Files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return []byte(body), nil
}

// Set replaces a document.
func (f *MapFetcher) Set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[path] = body
}

// Fail makes every later fetch of path return err.
func (f *MapFetcher) Fail(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errs[path] = err
}

// WriteDataDir writes the sample CSVs into a temporary directory laid out
// like DefaultSourceFiles and returns its path.
func WriteDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for path, body := range SampleFetcher().Files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
	return dir
}
