package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// UnknownSymbol labels batch errors for records without a usable symbol
const UnknownSymbol = "Unknown Symbol"

// ValidateOne checks a single decoded JSON record against Schema.
// Every applicable check runs; errors accumulate in schema order.
func ValidateOne(record any) domain.ValidationResult {
	rec, ok := record.(map[string]any)
	if !ok || rec == nil {
		return domain.ValidationResult{
			IsValid: false,
			Errors:  []string{"record is not a valid object"},
		}
	}

	var errs []string
	for _, f := range Schema {
		v, present := rec[f.Name]
		if !present || isBlank(v) {
			if f.Required {
				errs = append(errs, fmt.Sprintf("required field %s missing", f.Name))
			}
			continue
		}

		actual := typeName(v)
		if actual != f.Type {
			errs = append(errs, fmt.Sprintf("invalid type for %s: expected %s, got %s", f.Name, f.Type, actual))
			continue
		}

		if len(f.Enum) > 0 {
			s := v.(string)
			if !allowed(f.Enum, s) {
				errs = append(errs, fmt.Sprintf("invalid value %s for %s, allowed: %s",
					s, f.Name, strings.Join(f.Enum, ", ")))
			}
		}
	}

	return domain.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateMany validates a decoded JSON array. Accepted records come back as
// positions in input order; each rejected record contributes its errors,
// prefixed with its 1-based index and symbol.
func ValidateMany(records any) domain.BatchValidationResult {
	var items []any
	switch r := records.(type) {
	case []any:
		items = r
	case []map[string]any:
		items = make([]any, len(r))
		for i, m := range r {
			items[i] = m
		}
	default:
		return domain.BatchValidationResult{
			IsValid:            false,
			ValidatedPositions: []domain.Position{},
			Errors:             []string{"input is not an array"},
		}
	}

	result := domain.BatchValidationResult{
		IsValid:            true,
		ValidatedPositions: make([]domain.Position, 0, len(items)),
		Errors:             []string{},
	}

	for i, item := range items {
		res := ValidateOne(item)
		if !res.IsValid {
			label := symbolLabel(item)
			for _, e := range res.Errors {
				result.Errors = append(result.Errors, fmt.Sprintf("Position %d (%s): %s", i+1, label, e))
			}
			continue
		}
		result.ValidatedPositions = append(result.ValidatedPositions, toPosition(item.(map[string]any)))
	}

	return result
}

func symbolLabel(item any) string {
	rec, ok := item.(map[string]any)
	if !ok {
		return UnknownSymbol
	}
	if s, ok := rec["symbol"].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return UnknownSymbol
}

// toPosition copies an accepted record into a Position, coercing numbers.
func toPosition(rec map[string]any) domain.Position {
	p := domain.Position{
		Symbol: rec["symbol"].(string),
		Type:   rec["type"].(string),
	}
	p.EntryPrice, _ = toFloat(rec["entryPrice"])
	p.Amount, _ = toFloat(rec["amount"])

	p.BaseAsset = optString(rec, "baseAsset")
	p.QuoteAsset = optString(rec, "quoteAsset")
	p.User = optString(rec, "user")
	p.Leverage = optFloat(rec, "leverage")
	p.PnL = optFloat(rec, "pnl")
	p.Timestamp = optFloat(rec, "timestamp")
	return p
}

func optString(rec map[string]any, key string) *string {
	v, ok := rec[key]
	if !ok || isBlank(v) {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func optFloat(rec map[string]any, key string) *float64 {
	v, ok := rec[key]
	if !ok || isBlank(v) {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// toFloat converts JSON-ish numeric values, including numeric strings, to float64
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
