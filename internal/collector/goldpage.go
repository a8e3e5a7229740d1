package collector

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"

	apierrors "feargreed/internal/errors"
)

// GoldPage is what the domestic gold quote page shows for today.
type GoldPage struct {
	KRXPerGram decimal.Decimal
	USDKRW     decimal.Decimal
}

// GoldPageReader reads the domestic gold price and the reference USD/KRW
// rate from a gold quote page.
type GoldPageReader interface {
	ReadGoldPage(ctx context.Context, pageURL string) (GoldPage, error)
}

// goldPageScript pulls the raw texts out of Naver's goldDetail page: the
// KRX price in p.no_today and the rate in the cell next to the
// "기준 원달러 환율" header.
const goldPageScript = `(() => {
	const price = document.querySelector('p.no_today');
	let rate = '';
	for (const th of document.querySelectorAll('th')) {
		if (th.textContent.includes('기준 원달러 환율')) {
			const td = th.nextElementSibling;
			rate = td ? td.textContent : '';
			break;
		}
	}
	return {price: price ? price.textContent : '', rate: rate};
})()`

type goldPageText struct {
	Price string `json:"price"`
	Rate  string `json:"rate"`
}

// BrowserGoldPage renders the quote page in headless Chrome. The page is
// EUC-KR and partly script built, so it is read from the DOM rather than
// the raw response.
type BrowserGoldPage struct {
	headless bool
	timeout  time.Duration
	logger   *slog.Logger
}

// NewBrowserGoldPage creates a reader that starts one browser per read.
func NewBrowserGoldPage(headless bool, timeout time.Duration, logger *slog.Logger) *BrowserGoldPage {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserGoldPage{
		headless: headless,
		timeout:  timeout,
		logger:   logger.With(slog.String("component", "gold_page")),
	}
}

// ReadGoldPage implements GoldPageReader.
func (b *BrowserGoldPage) ReadGoldPage(ctx context.Context, pageURL string) (GoldPage, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", b.headless))
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	start := time.Now()
	var raw goldPageText
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(`p.no_today`, chromedp.ByQuery),
		chromedp.Evaluate(goldPageScript, &raw),
	)
	if err != nil {
		return GoldPage{}, apierrors.NewNetworkError("render gold page", err).WithContext("url", pageURL)
	}

	b.logger.DebugContext(ctx, "gold page read",
		slog.String("url", pageURL),
		slog.String("price", strings.TrimSpace(raw.Price)),
		slog.String("rate", strings.TrimSpace(raw.Rate)),
		slog.Duration("duration", time.Since(start)))

	return parseGoldPage(raw)
}

var pageNumber = regexp.MustCompile(`\d[\d,]*(\.\d+)?`)

// parsePageNumber reads the first number of a page text such as
// "143,210.55원/g", dropping thousands separators.
func parsePageNumber(s string) (decimal.Decimal, bool) {
	m := pageNumber.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseGoldPage(raw goldPageText) (GoldPage, error) {
	price, ok := parsePageNumber(raw.Price)
	if !ok {
		return GoldPage{}, apierrors.NewParsingError("no gold price on page", nil).WithContext("text", raw.Price)
	}
	rate, ok := parsePageNumber(raw.Rate)
	if !ok {
		return GoldPage{}, apierrors.NewParsingError("no USD/KRW rate on page", nil).WithContext("text", raw.Rate)
	}
	return GoldPage{KRXPerGram: price, USDKRW: rate}, nil
}
