package fronius

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// FormatPower renders a power value in W, or in kW above 1000 W, using a
// decimal comma.
func FormatPower(w float64) string {
	var s string
	if math.Abs(w) > 1000 {
		s = fmt.Sprintf("%.2f kW", w/1000)
	} else {
		s = fmt.Sprintf("%.0f W", w)
	}
	return strings.ReplaceAll(s, ".", ",")
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// FormatResult renders one output line, e.g. "Register 40092: 2345.67 (2,35 kW)".
func FormatResult(r *ReadResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Register %d: %v", r.Register.Addr, r.Value)
	if r.Register.Power {
		if f, ok := toFloat(r.Value); ok {
			fmt.Fprintf(&b, " (%s)", FormatPower(f))
		}
	}
	if r.Register.Description != "" {
		fmt.Fprintf(&b, " # %s", r.Register.Description)
	}
	return b.String()
}

// WriteResults prints the register overview, one line per result.
func WriteResults(w io.Writer, results []*ReadResult) error {
	if _, err := fmt.Fprintln(w, "Register overview:"); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintln(w, FormatResult(r)); err != nil {
			return err
		}
	}
	return nil
}
