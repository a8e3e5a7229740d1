package sources

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feargreed/internal/shared/testutil"
)

func TestLoader_Load(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	l := NewLoader(testutil.SampleFetcher(), logger)

	docs, err := l.Load(context.Background(), testutil.DefaultSourceFiles)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, testutil.GoldCSV, string(docs["gold"].Body))
	assert.Equal(t, "as-is/btc_premium.csv", docs["btc_premium"].Path)
}

func TestLoader_FailFast(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	fetcher := testutil.SampleFetcher()
	boom := errors.New("boom")
	fetcher.Fail("coin.csv", boom)

	docs, err := NewLoader(fetcher, logger).Load(context.Background(), testutil.DefaultSourceFiles)
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, boom)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "coin", loadErr.Source)
	assert.Equal(t, "coin.csv", loadErr.Path)
	assert.True(t, logs.ContainsMessage("source load failed"))
}

type blockingFetcher struct {
	started atomic.Int32
}

func (b *blockingFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	b.started.Add(1)
	if path == "bad.csv" {
		return nil, errors.New("bad")
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestLoader_CancelsSiblingsAndAwaitsAll(t *testing.T) {
	f := &blockingFetcher{}
	_, err := NewLoader(f, nil).Load(context.Background(), map[string]string{
		"a":   "a.csv",
		"b":   "b.csv",
		"bad": "bad.csv",
	})

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "bad", loadErr.Source)
	assert.Equal(t, int32(3), f.started.Load())
}

func TestLoader_Empty(t *testing.T) {
	docs, err := NewLoader(testutil.SampleFetcher(), nil).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
