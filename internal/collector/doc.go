// Package collector downloads the data behind the dashboard and writes it
// as CSV files.
//
// Stock fear & greed comes from CNN, crypto fear & greed from
// alternative.me, coin prices from CoinGecko and index closes from the
// Yahoo Finance chart API. Columns are outer joined on date and written in
// ascending date order. Initial mode rewrites the collected columns with
// the full history. Daily mode upserts today's row and falls back to
// initial when the file does not exist yet.
//
// CollectGold reads the KRX gold price and USD/KRW rate from Naver's gold
// page through headless Chrome, takes the gold futures close from Yahoo and
// upserts the day's premium into the gold file. RecordGold does the same
// from quotes given by hand.
package collector
