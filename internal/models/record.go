package models

import "time"

// TimeseriesRecord is one sampled value from a greenhouse sensor series.
// Records are immutable once appended to a series cache; identity is
// positional (there is no dedup key).
type TimeseriesRecord struct {
	When  time.Time `json:"when"`
	Value float64   `json:"value"`
	// DisplayValue is a derived, display-ready unit added by the caller
	// (e.g. tenths-of-degree raw readings converted to degrees).
	DisplayValue float64 `json:"display_value,omitempty"`
}

// LogRecord is one entry from the greenhouse controller log.
type LogRecord struct {
	When    time.Time `json:"when"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}
