package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hours is a non-negative decimal hour amount. It is serialized the way
// exported documents carry it: a string with two decimals ("2.50").
// Numbers and numeric strings are both accepted when decoding.
type Hours float64

// RoundHours rounds v to two decimals, the precision durations are stored with.
func RoundHours(v float64) Hours {
	return Hours(math.Round(v*100) / 100)
}

func (h Hours) Float64() float64 {
	return float64(h)
}

func (h Hours) String() string {
	return strconv.FormatFloat(float64(h), 'f', 2, 64)
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hours) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*h = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid hours value %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid hours value %q: not a finite number", raw)
	}
	*h = Hours(v)
	return nil
}
