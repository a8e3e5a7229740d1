package collector

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Gold file columns.
const (
	ColumnGoldKRX     = "krx"
	ColumnGoldUSD     = "usd"
	ColumnUSDKRWRate  = "usd_krw_rate"
	ColumnGoldPremium = "premium_percent"
)

// gramsPerTroyOunce converts the international per-ounce price to grams.
var gramsPerTroyOunce = decimal.RequireFromString("31.1035")

// ErrInvalidQuote is returned for non-positive gold premium inputs.
var ErrInvalidQuote = errors.New("gold quote values must be positive")

// GoldQuote is one day of domestic and international gold prices.
type GoldQuote struct {
	Date     string
	KRX      decimal.Decimal // KRW per gram, domestic exchange
	USDPerOz decimal.Decimal // USD per troy ounce, international
	USDKRW   decimal.Decimal // KRW per USD
}

// GoldPremium returns how far the domestic price sits above the
// international one, in percent rounded to two decimals:
//
//	(krx / ((usd_per_oz / 31.1035) * usd_krw) - 1) * 100
func GoldPremium(q GoldQuote) (decimal.Decimal, error) {
	if !q.KRX.IsPositive() || !q.USDPerOz.IsPositive() || !q.USDKRW.IsPositive() {
		return decimal.Zero, ErrInvalidQuote
	}
	international := q.USDPerOz.Div(gramsPerTroyOunce).Mul(q.USDKRW)
	premium := q.KRX.Div(international).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	return premium.RoundBank(2), nil
}
