package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01T00:00:00Z and 2024-01-02T00:00:00Z
const (
	jan1 = 1704067200
	jan2 = 1704153600
)

const (
	alternativeBody = `{"name":"Fear and Greed Index","data":[
		{"value":"40","value_classification":"Fear","timestamp":"1704153600"},
		{"value":"20","value_classification":"Extreme Fear","timestamp":"1704067200"}]}`
	cnnBody = `{"fear_and_greed":{"score":44.5},"fear_and_greed_historical":{"data":[
		{"x":1704067200000,"y":45.5},
		{"x":1704153600000,"y":44.5}]}}`
	bitcoinBody = `{"prices":[[1704067200000,42000.123],[1704153600000,43000.456],[1704200000000,43150.5]]}`

	// Bars open at 14:30 UTC; the New York offset keeps them on their date.
	gspcBody = `{"chart":{"result":[{"meta":{"symbol":"^GSPC","gmtoffset":-18000},
		"timestamp":[1704119400,1704205800,1704292200],
		"indicators":{"quote":[{"close":[4742.834,4704.81,null]}]}}],"error":null}}`
	ixicBody = `{"chart":{"result":[{"meta":{"symbol":"^IXIC","gmtoffset":-18000},
		"timestamp":[1704119400,1704205800],
		"indicators":{"quote":[{"close":[15011.35,14765.94]}]}}],"error":null}}`
	goldFuturesBody = `{"chart":{"result":[{"meta":{"symbol":"GC=F","gmtoffset":-18000},
		"timestamp":[1704085200,1704171600],
		"indicators":{"quote":[{"close":[1990.5,2000]}]}}],"error":null}}`
	unknownSymbolBody = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
)

func fakeAPI(t *testing.T, coinStatus map[string]int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/fng/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(alternativeBody))
	})
	mux.HandleFunc("/graphdata", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cnnBody))
	})
	mux.HandleFunc("/api/v3/coins/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "daily", r.URL.Query().Get("interval"))
		switch r.URL.Path {
		case "/api/v3/coins/bitcoin/market_chart":
			if s := coinStatus["bitcoin"]; s != 0 {
				w.WriteHeader(s)
				return
			}
			w.Write([]byte(bitcoinBody))
		case "/api/v3/coins/ethereum/market_chart":
			if s := coinStatus["ethereum"]; s != 0 {
				w.WriteHeader(s)
				return
			}
			w.Write([]byte(`{"prices":[[1704153600000,2300.1]]}`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/v8/finance/chart/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		switch strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/") {
		case "^GSPC":
			w.Write([]byte(gspcBody))
		case "^IXIC":
			w.Write([]byte(ixicBody))
		case "GC=F":
			assert.Equal(t, "5d", r.URL.Query().Get("range"))
			w.Write([]byte(goldFuturesBody))
		default:
			w.Write([]byte(unknownSymbolBody))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCryptoFearGreed(t *testing.T) {
	srv := fakeAPI(t, nil)

	col, err := newTestClient(t).FetchCryptoFearGreed(context.Background(), srv.URL+"/fng/", 0)
	require.NoError(t, err)
	assert.Equal(t, ColumnCryptoFearGreed, col.Name)
	assert.Equal(t, map[string]string{"2024-01-01": "20", "2024-01-02": "40"}, col.Values)
}

func TestFetchCryptoFearGreed_BadValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"value":"n/a","timestamp":"1704067200"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t).FetchCryptoFearGreed(context.Background(), srv.URL, 0)
	assert.Error(t, err)
}

func TestFetchStockFearGreed(t *testing.T) {
	srv := fakeAPI(t, nil)

	col, err := newTestClient(t).FetchStockFearGreed(context.Background(), srv.URL+"/graphdata")
	require.NoError(t, err)
	assert.Equal(t, ColumnStockFearGreed, col.Name)
	// half to even: 45.5 -> 46, 44.5 -> 44
	assert.Equal(t, map[string]string{"2024-01-01": "46", "2024-01-02": "44"}, col.Values)
}

func TestFetchCoinPrices(t *testing.T) {
	srv := fakeAPI(t, nil)

	col, err := newTestClient(t).FetchCoinPrices(context.Background(), srv.URL+"/api/v3/", "bitcoin", "btc", "max")
	require.NoError(t, err)
	assert.Equal(t, "btc", col.Name)
	assert.Equal(t, map[string]string{
		"2024-01-01": "42000.12",
		"2024-01-02": "43150.5",
	}, col.Values)
}

func TestFetchCoinPrices_NotFound(t *testing.T) {
	srv := fakeAPI(t, nil)

	_, err := newTestClient(t).FetchCoinPrices(context.Background(), srv.URL+"/api/v3", "dogecoin", "doge", "max")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dogecoin")
}

func TestFetchIndexCloses(t *testing.T) {
	srv := fakeAPI(t, nil)

	col, err := newTestClient(t).FetchIndexCloses(context.Background(), srv.URL+"/", "^GSPC", "sp500", "max")
	require.NoError(t, err)
	assert.Equal(t, "sp500", col.Name)
	// the null close of 2024-01-03 is skipped
	assert.Equal(t, map[string]string{
		"2024-01-01": "4742.83",
		"2024-01-02": "4704.81",
	}, col.Values)
}

func TestFetchIndexCloses_Errors(t *testing.T) {
	srv := fakeAPI(t, nil)

	_, err := newTestClient(t).FetchIndexCloses(context.Background(), srv.URL, "^DJX", "dow", "max")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol may be delisted")

	mismatched := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1704119400],"indicators":{"quote":[{"close":[1,2]}]}}]}}`))
	}))
	defer mismatched.Close()

	_, err = newTestClient(t).FetchIndexCloses(context.Background(), mismatched.URL, "^GSPC", "sp500", "max")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lengths differ")
}

func TestFetchLatestClose(t *testing.T) {
	srv := fakeAPI(t, nil)

	date, v, err := newTestClient(t).FetchLatestClose(context.Background(), srv.URL, "GC=F")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", date)
	assert.Equal(t, "2000", v.String())

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{"timestamp":[1704119400],"indicators":{"quote":[{"close":[null]}]}}]}}`))
	}))
	defer empty.Close()

	_, _, err = newTestClient(t).FetchLatestClose(context.Background(), empty.URL, "GC=F")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no close in range")
}
