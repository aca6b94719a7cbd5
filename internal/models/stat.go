package models

import (
	"fmt"
	"strings"
)

// StatType identifies one of the greenhouse sensor series. Values appear
// verbatim in upstream URL paths.
type StatType string

const (
	StatTemperature StatType = "temperature"
	StatHumidity    StatType = "humidity"
	StatWater       StatType = "water"
	StatFan         StatType = "fan"
)

// StatTypes lists all series in a stable order.
func StatTypes() []StatType {
	return []StatType{StatTemperature, StatHumidity, StatWater, StatFan}
}

// ParseStatType normalizes and validates a stat name.
func ParseStatType(s string) (StatType, error) {
	st := StatType(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatTemperature, StatHumidity, StatWater, StatFan:
		return st, nil
	}
	return "", fmt.Errorf("unknown stat type %q", s)
}

func (s StatType) String() string { return string(s) }
