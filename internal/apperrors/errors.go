// Package apperrors defines the error taxonomy shared across the service.
// Cache and metrics failures are absorbed close to where they happen; these
// sentinels classify the failures that do reach the API boundary.
package apperrors

import "errors"

var (
	// ErrInvalidSymbol is returned for malformed or unknown ticker symbols.
	ErrInvalidSymbol = errors.New("invalid stock symbol")

	// ErrDataFetch is returned when the market data provider is unreachable
	// or returned malformed data.
	ErrDataFetch = errors.New("failed to fetch stock data")

	// ErrCache marks cache failures. Never fatal; logged and absorbed.
	ErrCache = errors.New("cache operation failed")

	// ErrAnalysis is returned when the narrative report generator fails.
	ErrAnalysis = errors.New("analysis failed")

	// ErrExport is returned when an export cannot be written. Exports are
	// user-initiated, so this propagates as a hard failure.
	ErrExport = errors.New("export failed")

	// ErrConfiguration is returned for missing or invalid credentials.
	ErrConfiguration = errors.New("invalid configuration")
)
