package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadError reports the source that failed a load.
type LoadError struct {
	Source string
	Path   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load source %s (%s): %v", e.Source, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Document is one fetched source.
type Document struct {
	Source string
	Path   string
	Body   []byte
}

// Loader fetches a set of named sources concurrently.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(fetcher Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{
		fetcher: fetcher,
		logger:  logger.With(slog.String("component", "source_loader")),
	}
}

// Load fetches every entry of files (source name to path). All fetches are
// started together and awaited; the first failure cancels the rest and is
// returned as a *LoadError. No documents are returned on failure.
func (l *Loader) Load(ctx context.Context, files map[string]string) (map[string]Document, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]Document, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name, p := i, name, files[name]
		g.Go(func() error {
			start := time.Now()
			body, err := l.fetcher.Fetch(gctx, p)
			if err != nil {
				return &LoadError{Source: name, Path: p, Err: err}
			}
			l.logger.DebugContext(gctx, "source fetched",
				slog.String("source", name),
				slog.String("path", p),
				slog.Int("bytes", len(body)),
				slog.Duration("duration", time.Since(start)),
			)
			docs[i] = Document{Source: name, Path: p, Body: body}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.logger.ErrorContext(ctx, "source load failed", slog.String("error", err.Error()))
		return nil, err
	}

	out := make(map[string]Document, len(docs))
	for _, d := range docs {
		out[d.Source] = d
	}
	return out, nil
}
