package collector

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apierrors "feargreed/internal/errors"
	"feargreed/pkg/contracts/domain"
)

// Column names written by the collector.
const (
	ColumnStockFearGreed  = "fear_greed"
	ColumnCryptoFearGreed = "crypto_fear_greed"
)

// Column is one fetched series: a value per date.
type Column struct {
	Name   string
	Values map[string]string
}

func newColumn(name string) Column {
	return Column{Name: name, Values: make(map[string]string)}
}

func dateOf(t time.Time) string {
	return t.UTC().Format(domain.DateLayout)
}

type alternativeResponse struct {
	Data []struct {
		Value     string `json:"value"`
		Timestamp string `json:"timestamp"`
	} `json:"data"`
}

// FetchCryptoFearGreed reads the crypto fear & greed history from an
// alternative.me compatible endpoint. limit 0 returns the full history.
func (c *Client) FetchCryptoFearGreed(ctx context.Context, endpoint string, limit int) (Column, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return Column{}, apierrors.NewConfigError("invalid crypto fear & greed url", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	var body alternativeResponse
	if err := c.GetJSON(ctx, u.String(), &body); err != nil {
		return Column{}, err
	}

	col := newColumn(ColumnCryptoFearGreed)
	for _, d := range body.Data {
		ts, err := strconv.ParseInt(strings.TrimSpace(d.Timestamp), 10, 64)
		if err != nil {
			return Column{}, apierrors.NewParsingError("invalid timestamp", err).WithContext("timestamp", d.Timestamp)
		}
		v, err := strconv.Atoi(strings.TrimSpace(d.Value))
		if err != nil {
			return Column{}, apierrors.NewParsingError("invalid value", err).WithContext("value", d.Value)
		}
		col.Values[dateOf(time.Unix(ts, 0))] = strconv.Itoa(v)
	}
	return col, nil
}

type cnnResponse struct {
	Historical struct {
		Data []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"data"`
	} `json:"fear_and_greed_historical"`
}

// FetchStockFearGreed reads the CNN fear & greed history. Timestamps are
// epoch milliseconds; values are rounded half to even to an integer.
func (c *Client) FetchStockFearGreed(ctx context.Context, endpoint string) (Column, error) {
	var body cnnResponse
	if err := c.GetJSON(ctx, endpoint, &body); err != nil {
		return Column{}, err
	}

	col := newColumn(ColumnStockFearGreed)
	for _, p := range body.Historical.Data {
		date := dateOf(time.UnixMilli(int64(p.X)))
		col.Values[date] = decimal.NewFromFloat(p.Y).RoundBank(0).String()
	}
	return col, nil
}

type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// FetchCoinPrices reads daily USD prices of coinID from a CoinGecko
// compatible market_chart endpoint and stores them under name. days is
// "max" or a day count. Prices are rounded half to even to two decimals;
// when a date has several points the latest wins.
func (c *Client) FetchCoinPrices(ctx context.Context, baseURL, coinID, name, days string) (Column, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/coins/" + url.PathEscape(coinID) + "/market_chart")
	if err != nil {
		return Column{}, apierrors.NewConfigError("invalid coingecko url", err)
	}
	q := u.Query()
	q.Set("vs_currency", "usd")
	q.Set("days", days)
	q.Set("interval", "daily")
	u.RawQuery = q.Encode()

	var body marketChartResponse
	if err := c.GetJSON(ctx, u.String(), &body); err != nil {
		return Column{}, fmt.Errorf("%s: %w", coinID, err)
	}

	col := newColumn(name)
	for _, p := range body.Prices {
		date := dateOf(time.UnixMilli(int64(p[0])))
		col.Values[date] = decimal.NewFromFloat(p[1]).RoundBank(2).String()
	}
	return col, nil
}
