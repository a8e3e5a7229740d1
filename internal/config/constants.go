package config

// Application constants
const (
	AppName = "Fear & Greed Dashboard"

	// LoadErrorMessage is the single message shown when the dashboard data
	// could not be loaded.
	LoadErrorMessage = "데이터를 불러오는 중 오류가 발생했습니다."
)

// Source names referenced by chart definitions.
const (
	SourceStock      = "stock"
	SourceCoin       = "coin"
	SourceBTCPremium = "btc_premium"
	SourceGold       = "gold"
)

// Chart names.
const (
	ChartStock   = "stock"
	ChartCrypto  = "crypto"
	ChartPremium = "premium"
)

// DefaultCharts returns the stock, crypto and premium chart definitions.
func DefaultCharts() []ChartConfig {
	return []ChartConfig{
		{
			Name:  ChartStock,
			Title: "주식 관련 지수",
			Sentiment: &SeriesConfig{
				Key: "fear_greed", Label: "Fear & Greed 지수", Source: SourceStock,
				Column: "fear_greed", Color: "#4CAF50", Axis: 0, Enabled: true,
			},
			Overlays: []SeriesConfig{
				{Key: "sp500", Label: "S&P 500", Source: SourceStock, Column: "sp500", Color: "#10b981", Axis: 1, Enabled: true},
				{Key: "nasdaq", Label: "NASDAQ", Source: SourceStock, Column: "nasdaq", Color: "#8b5cf6", Axis: 1, Enabled: true},
			},
			Normalization: NormalizationConfig{Policy: "baseline", Sensitivity: 2},
		},
		{
			Name:  ChartCrypto,
			Title: "암호화폐 관련 지수",
			Sentiment: &SeriesConfig{
				Key: "crypto_fear_greed", Label: "암호화폐 Fear & Greed", Source: SourceCoin,
				Column: "crypto_fear_greed", Color: "#FFC107", Axis: 0, Enabled: true,
			},
			Overlays: []SeriesConfig{
				{Key: "btc", Label: "Bitcoin", Source: SourceCoin, Column: "btc", Color: "#f7931a", Axis: 1, Enabled: true},
				{Key: "eth", Label: "Ethereum", Source: SourceCoin, Column: "eth", Color: "#627eea", Axis: 1},
				{Key: "sol", Label: "Solana", Source: SourceCoin, Column: "sol", Color: "#9945ff", Axis: 1},
				{Key: "xrp", Label: "Ripple", Source: SourceCoin, Column: "xrp", Color: "#23292f", Axis: 1},
			},
			Normalization: NormalizationConfig{Policy: "baseline", Sensitivity: 1.5},
		},
		{
			Name:  ChartPremium,
			Title: "프리미엄 지수",
			Overlays: []SeriesConfig{
				{Key: "btc_premium", Label: "비트코인 김치 프리미엄", Source: SourceBTCPremium, Column: "premium_percent", Color: "#f7931a", Enabled: true},
				{Key: "gold_premium", Label: "금 프리미엄", Source: SourceGold, Column: "premium_percent", Color: "#ffd700", Enabled: true, Optional: true},
			},
			Normalization: NormalizationConfig{Policy: "none"},
		},
	}
}
