package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"feargreed/internal/collector"
	"feargreed/internal/config"
	"feargreed/internal/infrastructure"
	"feargreed/pkg/contracts/domain"
)

type options struct {
	mode string
	only string
	out  string

	// manualGold is set when the gold quote was given on the command line.
	manualGold bool
	gold       collector.GoldQuote
}

func parseOptions(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("collector", flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &options{}
	fs.StringVar(&opts.mode, "mode", "daily", "initial | daily | gold")
	fs.StringVar(&opts.only, "only", "", "collect a single file: stock | coin (initial and daily modes)")
	fs.StringVar(&opts.out, "out", "", "output directory (defaults to collector.output_dir)")
	date := fs.String("date", "", "gold mode with a manual quote: quote date YYYY-MM-DD (defaults to today, UTC)")
	krx := fs.String("krx", "", "gold mode: KRX gold price in KRW per gram (skips scraping)")
	usd := fs.String("usd", "", "gold mode: international gold price in USD per troy ounce (skips scraping)")
	rate := fs.String("usdkrw", "", "gold mode: USD/KRW exchange rate (skips scraping)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch opts.only {
	case "", config.SourceStock, config.SourceCoin:
	default:
		return nil, fmt.Errorf("invalid -only %q (want stock or coin)", opts.only)
	}

	if opts.mode != "gold" {
		if _, err := collector.ParseMode(opts.mode); err != nil {
			return nil, err
		}
		return opts, nil
	}

	if *date == "" && *krx == "" && *usd == "" && *rate == "" {
		return opts, nil
	}
	opts.manualGold = true

	if *date != "" {
		if _, err := time.Parse(domain.DateLayout, *date); err != nil {
			return nil, fmt.Errorf("invalid -date: %w", err)
		}
		opts.gold.Date = *date
	}
	for _, f := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"krx", *krx, &opts.gold.KRX},
		{"usd", *usd, &opts.gold.USDPerOz},
		{"usdkrw", *rate, &opts.gold.USDKRW},
	} {
		if f.value == "" {
			return nil, fmt.Errorf("-%s is required in gold mode", f.name)
		}
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return nil, fmt.Errorf("invalid -%s: %w", f.name, err)
		}
		*f.dst = d
	}
	return opts, nil
}

func run(ctx context.Context, c *collector.Collector, opts *options) error {
	if opts.mode == "gold" {
		if opts.manualGold {
			return c.RecordGold(ctx, opts.gold)
		}
		return c.CollectGold(ctx)
	}

	mode, err := collector.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	switch opts.only {
	case config.SourceStock:
		return c.CollectStock(ctx, mode)
	case config.SourceCoin:
		return c.CollectCoins(ctx, mode)
	}
	return c.Run(ctx, mode)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", slog.String("error", err.Error()))
	}

	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if opts.out != "" {
		cfg.Collector.OutputDir = opts.out
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := os.MkdirAll(cfg.Collector.OutputDir, 0o755); err != nil {
		logger.Error("Failed to create output directory",
			slog.String("dir", cfg.Collector.OutputDir),
			slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.Info("Starting collector",
		slog.String("mode", opts.mode),
		slog.String("only", opts.only),
		slog.String("output_dir", cfg.Collector.OutputDir))

	if err := run(ctx, collector.New(cfg, logger), opts); err != nil {
		logger.Error("Collector failed", slog.String("error", err.Error()))
		stop()
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}
