// Package stats holds the few numeric helpers the aggregation needs and a
// nullable float used wherever a ratio can have a zero denominator.
package stats

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// NullFloat is a float64 that may be missing. The zero value is missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some wraps v. NaN and infinities are treated as missing.
func Some(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Ratio returns num/den, missing when den is zero.
func Ratio(num, den int) NullFloat {
	if den == 0 {
		return NullFloat{}
	}
	return Some(float64(num) / float64(den))
}

// Round rounds to the given number of decimal places, halves to even on the
// exact binary value, so 0.125 rounds to 0.12 and 0.375 to 0.38.
func Round(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func (n NullFloat) Round(places int) NullFloat {
	if !n.Valid {
		return n
	}
	return Some(Round(n.Float64, places))
}

// Mean is the arithmetic mean, missing for empty input.
func Mean(values []float64) NullFloat {
	if len(values) == 0 {
		return NullFloat{}
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return Some(sum / float64(len(values)))
}

// Median is the middle value, or the mean of the two middle values for even
// counts. Missing for empty input.
func Median(values []float64) NullFloat {
	n := len(values)
	if n == 0 {
		return NullFloat{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return Some(sorted[n/2])
	}
	return Some((sorted[n/2-1] + sorted[n/2]) / 2)
}

// Max returns the largest valid value, missing when there is none.
func Max(values []NullFloat) NullFloat {
	var out NullFloat
	for _, v := range values {
		if v.Valid && (!out.Valid || v.Float64 > out.Float64) {
			out = v
		}
	}
	return out
}

// Parse reads a float cell. Empty and NaN spellings are missing.
func Parse(s string) (NullFloat, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none":
		return NullFloat{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NullFloat{}, fmt.Errorf("parsing float %q: %w", s, err)
	}
	return Some(v), nil
}

// Format writes v in shortest form; whole numbers keep a
// trailing ".0".
func Format(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (n NullFloat) String() string {
	if !n.Valid {
		return "NaN"
	}
	return Format(n.Float64)
}

// MarshalCSV writes missing values as empty cells.
func (n NullFloat) MarshalCSV() (string, error) {
	if !n.Valid {
		return "", nil
	}
	return Format(n.Float64), nil
}

func (n *NullFloat) UnmarshalCSV(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Value implements driver.Valuer so missing values are stored as NULL.
func (n NullFloat) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Float64, nil
}

// Scan implements sql.Scanner.
func (n *NullFloat) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = NullFloat{}
	case float64:
		*n = Some(v)
	case int64:
		*n = Some(float64(v))
	case []byte:
		return n.UnmarshalCSV(string(v))
	case string:
		return n.UnmarshalCSV(v)
	default:
		return fmt.Errorf("cannot scan %T into NullFloat", src)
	}
	return nil
}
