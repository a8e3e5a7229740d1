// Package config loads dashboard and collector configuration.
//
// Values are resolved in three layers, lowest first:
//
//	1. Default() and DefaultCharts()
//	2. A YAML file named by FNG_CONFIG_FILE, or config.yaml / configs/config.yaml
//	3. FNG_* environment variables
//
// Environment variables follow the struct layout:
//
//	FNG_SERVER_PORT=8080
//	FNG_LOGGING_OUTPUT=both
//	FNG_SOURCES_BACKEND=s3
//	FNG_SOURCES_S3_BUCKET=fear-greed-data
//	FNG_SOURCES_FILES=stock:stock.csv,coin:coin.csv
//
// Chart definitions are only configurable through the YAML file:
//
//	charts:
//	  - name: stock
//	    sentiment: {key: fear_greed, source: stock, column: fear_greed, enabled: true}
//	    overlays:
//	      - {key: sp500, source: stock, column: sp500, enabled: true}
//	    normalization: {policy: minmax, lo: 10, hi: 90}
package config
