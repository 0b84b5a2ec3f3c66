package report

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

const maxPercentDigits = 6

// FormatPercentage renders a fraction as a percentage string: the value is
// multiplied by 100, rounded half away from zero to digits decimal places
// and suffixed with "%". 0.5 becomes "50%", 0.7561 with one digit "75.6%".
func FormatPercentage(value any, digits int) (string, error) {
	f, err := toFloat(value)
	if err != nil {
		return "", fmt.Errorf("percentage: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("percentage: value %v is not finite", f)
	}
	digits = min(max(digits, 0), maxPercentDigits)

	scale := math.Pow(10, float64(digits))
	scaled := f * 100 * scale
	if math.IsInf(scaled, 0) {
		return "", fmt.Errorf("percentage: value %v is out of range", f)
	}
	rounded := math.Round(scaled) / scale
	if rounded == 0 {
		// Drops the sign of negative zero.
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', digits, 64) + "%", nil
}

// Length returns the element count of a slice, array, map or string. Nil counts as zero.
func Length(value any) (int, error) {
	if value == nil {
		return 0, nil
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return v.Len(), nil
	default:
		return 0, fmt.Errorf("length: unsupported type %T", value)
	}
}

// Trim strips leading and trailing whitespace.
func Trim(value string) string {
	return strings.TrimSpace(value)
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("value is nil")
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", v)
		}
		return f, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
