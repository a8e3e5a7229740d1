// Package exporter writes dashboard data to files.
//
// CSVWriter replaces CSV files atomically and is used by the collector to
// produce the source files the dashboard reads. WriteChartXLSX renders a
// chart payload as an Excel workbook for download.
//
//	w := exporter.NewCSVWriter("data", logger)
//	err := w.WriteSimpleCSV("coin.csv", []string{"date", "btc"}, rows)
package exporter
