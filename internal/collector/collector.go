package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"feargreed/internal/config"
	"feargreed/internal/exporter"
)

// Mode selects how collected data is written.
type Mode string

const (
	// ModeInitial fetches the full history and rewrites each file.
	ModeInitial Mode = "initial"
	// ModeDaily fetches a short window and upserts today's row only.
	ModeDaily Mode = "daily"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeInitial:
		return ModeInitial, nil
	case ModeDaily:
		return ModeDaily, nil
	}
	return "", fmt.Errorf("unknown mode %q (want initial or daily)", s)
}

// ErrNoData is returned when every fetch for a file failed.
var ErrNoData = errors.New("no data collected")

// Collector fetches sentiment indices, index closes, coin prices and the
// gold quote and writes the CSV files the dashboard reads.
type Collector struct {
	cfg      config.CollectorConfig
	files    map[string]string
	client   *Client
	goldPage GoldPageReader
	writer   *exporter.CSVWriter
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a collector writing to cfg.Collector.OutputDir under the
// file names of cfg.Sources.Files.
func New(cfg *config.Config, logger *slog.Logger) *Collector {
	cc := cfg.Collector
	return &Collector{
		cfg:      cc,
		files:    cfg.Sources.Files,
		client:   NewClient(cc.Timeout, cc.RequestsPerSecond, cc.UserAgent, logger),
		goldPage: NewBrowserGoldPage(cc.Headless, cc.Timeout, logger),
		writer:   exporter.NewCSVWriter(cc.OutputDir, logger),
		logger:   logger.With(slog.String("component", "collector")),
		now:      time.Now,
	}
}

func (c *Collector) today() string {
	return dateOf(c.now())
}

// Run collects the stock and coin files.
func (c *Collector) Run(ctx context.Context, mode Mode) error {
	start := time.Now()
	c.logger.InfoContext(ctx, "collection started", slog.String("mode", string(mode)))

	var errs []error
	if err := c.CollectStock(ctx, mode); err != nil {
		errs = append(errs, fmt.Errorf("stock: %w", err))
	}
	if err := c.CollectCoins(ctx, mode); err != nil {
		errs = append(errs, fmt.Errorf("coin: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		c.logger.ErrorContext(ctx, "collection finished with errors",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return err
	}
	c.logger.InfoContext(ctx, "collection finished", slog.Duration("duration", time.Since(start)))
	return nil
}

// CollectStock writes the index close columns, ordered by name, followed
// by the stock fear & greed column.
func (c *Collector) CollectStock(ctx context.Context, mode Mode) error {
	rng := "max"
	if mode == ModeDaily {
		rng = "5d"
	}

	names := make([]string, 0, len(c.cfg.Indices))
	for name := range c.cfg.Indices {
		names = append(names, name)
	}
	sort.Strings(names)

	fetch := make([]fetchFunc, 0, len(names)+1)
	for _, name := range names {
		name, symbol := name, c.cfg.Indices[name]
		fetch = append(fetch, func(ctx context.Context) (Column, error) {
			return c.client.FetchIndexCloses(ctx, c.cfg.YahooChartURL, symbol, name, rng)
		})
	}
	fetch = append(fetch, func(ctx context.Context) (Column, error) {
		return c.client.FetchStockFearGreed(ctx, c.cfg.StockFearGreedURL)
	})
	return c.collect(ctx, mode, c.files[config.SourceStock], fetch)
}

// CollectCoins writes the crypto fear & greed column and one price column
// per configured coin, ordered by column name.
func (c *Collector) CollectCoins(ctx context.Context, mode Mode) error {
	limit, days := 0, "max"
	if mode == ModeDaily {
		limit, days = 2, "2"
	}

	fetch := []fetchFunc{
		func(ctx context.Context) (Column, error) {
			return c.client.FetchCryptoFearGreed(ctx, c.cfg.CryptoFearGreedURL, limit)
		},
	}

	names := make([]string, 0, len(c.cfg.Coins))
	for name := range c.cfg.Coins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		name, id := name, c.cfg.Coins[name]
		fetch = append(fetch, func(ctx context.Context) (Column, error) {
			return c.client.FetchCoinPrices(ctx, c.cfg.CoinGeckoURL, id, name, days)
		})
	}

	return c.collect(ctx, mode, c.files[config.SourceCoin], fetch)
}

type fetchFunc func(ctx context.Context) (Column, error)

// collect runs every fetch concurrently and writes the merged result to
// file. A failed fetch drops its column; the file is left alone only when
// nothing could be fetched.
func (c *Collector) collect(ctx context.Context, mode Mode, file string, fetch []fetchFunc) error {
	if file == "" {
		return fmt.Errorf("no output file configured")
	}

	columns := make([]*Column, len(fetch))
	var (
		mu     sync.Mutex
		failed []error
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fetch {
		i, f := i, f
		g.Go(func() error {
			col, err := f(gctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.WarnContext(ctx, "fetch failed, column skipped",
					slog.String("file", file),
					slog.String("error", err.Error()))
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
				return nil
			}
			columns[i] = &col
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fetched := NewTable()
	for _, col := range columns {
		if col != nil {
			fetched.AddColumnValues(*col)
		}
	}
	if len(fetched.Columns()) == 0 {
		return fmt.Errorf("%w: %w", ErrNoData, errors.Join(failed...))
	}

	existing, err := ReadTable(c.writer.Path(file))
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	var table *Table
	switch {
	case mode == ModeDaily && existing.Len() > 0:
		table = existing
		table.Merge(fetched.Only(c.today()))
	default:
		if mode == ModeDaily {
			c.logger.InfoContext(ctx, "no existing file, writing fetched rows",
				slog.String("file", file))
		}
		table = existing.Without(fetched.Columns()...)
		table.Merge(fetched)
	}

	if err := c.writer.WriteSimpleCSV(file, table.Header(), table.Records()); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}

	c.logger.InfoContext(ctx, "file written",
		slog.String("file", file),
		slog.String("mode", string(mode)),
		slog.Int("rows", table.Len()),
		slog.Any("columns", table.Columns()),
		slog.Int("failed_fetches", len(failed)))
	return nil
}

// CollectGold reads today's domestic gold price and USD/KRW rate from the
// gold page and the international price from the gold futures close, then
// records the premium.
func (c *Collector) CollectGold(ctx context.Context) error {
	var (
		page GoldPage
		usd  decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.goldPage.ReadGoldPage(gctx, c.cfg.GoldPageURL)
		if err != nil {
			return fmt.Errorf("gold page: %w", err)
		}
		page = p
		return nil
	})
	g.Go(func() error {
		date, v, err := c.client.FetchLatestClose(gctx, c.cfg.YahooChartURL, c.cfg.GoldSymbol)
		if err != nil {
			return fmt.Errorf("gold futures: %w", err)
		}
		c.logger.DebugContext(ctx, "gold futures close",
			slog.String("symbol", c.cfg.GoldSymbol),
			slog.String("date", date),
			slog.String("close", v.String()))
		usd = v
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.ErrorContext(ctx, "gold collection failed", slog.String("error", err.Error()))
		return err
	}

	return c.RecordGold(ctx, GoldQuote{
		KRX:      page.KRXPerGram,
		USDPerOz: usd,
		USDKRW:   page.USDKRW,
	})
}

// RecordGold computes the gold premium of q and upserts its row into the
// gold file.
func (c *Collector) RecordGold(ctx context.Context, q GoldQuote) error {
	if q.Date == "" {
		q.Date = c.today()
	}
	premium, err := GoldPremium(q)
	if err != nil {
		return err
	}

	file := c.files[config.SourceGold]
	if file == "" {
		return fmt.Errorf("no gold file configured")
	}

	table, err := ReadTable(c.writer.Path(file))
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	table.Set(q.Date, ColumnGoldKRX, q.KRX.String())
	table.Set(q.Date, ColumnGoldUSD, q.USDPerOz.String())
	table.Set(q.Date, ColumnUSDKRWRate, q.USDKRW.String())
	table.Set(q.Date, ColumnGoldPremium, premium.StringFixed(2))

	if err := c.writer.WriteSimpleCSV(file, table.Header(), table.Records()); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}

	c.logger.InfoContext(ctx, "gold premium recorded",
		slog.String("date", q.Date),
		slog.String("premium_percent", premium.StringFixed(2)))
	return nil
}
