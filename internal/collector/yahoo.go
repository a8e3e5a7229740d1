package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apierrors "feargreed/internal/errors"
)

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooCloses reads daily closes of symbol from a Yahoo Finance compatible
// v8 chart endpoint. Timestamps are shifted by the exchange's GMT offset so
// a bar lands on its trading date; bars without a close are skipped.
func (c *Client) yahooCloses(ctx context.Context, baseURL, symbol, rng string) (map[string]decimal.Decimal, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return nil, apierrors.NewConfigError("invalid yahoo chart url", err)
	}
	q := u.Query()
	q.Set("range", rng)
	q.Set("interval", "1d")
	u.RawQuery = q.Encode()

	var body yahooChartResponse
	if err := c.GetJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	if e := body.Chart.Error; e != nil {
		return nil, apierrors.NewNetworkError(e.Description, nil).
			WithContext("symbol", symbol).
			WithContext("code", e.Code)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, apierrors.NewParsingError("empty chart result", nil).WithContext("symbol", symbol)
	}

	res := body.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	if len(closes) != len(res.Timestamp) {
		return nil, apierrors.NewParsingError("close and timestamp lengths differ", nil).
			WithContext("symbol", symbol).
			WithContext("timestamps", len(res.Timestamp)).
			WithContext("closes", len(closes))
	}

	out := make(map[string]decimal.Decimal, len(closes))
	for i, ts := range res.Timestamp {
		if closes[i] == nil {
			continue
		}
		out[dateOf(time.Unix(ts+res.Meta.GMTOffset, 0))] = decimal.NewFromFloat(*closes[i]).RoundBank(2)
	}
	return out, nil
}

// FetchIndexCloses reads the daily closes of an index such as ^GSPC and
// stores them under name. rng is a Yahoo range: "max", "5d", "1y".
func (c *Client) FetchIndexCloses(ctx context.Context, baseURL, symbol, name, rng string) (Column, error) {
	closes, err := c.yahooCloses(ctx, baseURL, symbol, rng)
	if err != nil {
		return Column{}, err
	}
	col := newColumn(name)
	for date, v := range closes {
		col.Values[date] = v.String()
	}
	return col, nil
}

// FetchLatestClose returns the most recent close of symbol within the last
// few trading days.
func (c *Client) FetchLatestClose(ctx context.Context, baseURL, symbol string) (string, decimal.Decimal, error) {
	closes, err := c.yahooCloses(ctx, baseURL, symbol, "5d")
	if err != nil {
		return "", decimal.Zero, err
	}
	var latest string
	for date := range closes {
		if date > latest {
			latest = date
		}
	}
	if latest == "" {
		return "", decimal.Zero, apierrors.NewParsingError("no close in range", nil).WithContext("symbol", symbol)
	}
	return latest, closes[latest], nil
}
