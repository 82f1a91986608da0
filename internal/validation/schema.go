// Package validation checks raw API records against the position schema and
// turns the accepted ones into domain positions.
//
// Validation is strict: a numeric string in a number field fails the type
// check. Normalization only happens after a record has been accepted.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// Field types understood by the schema
const (
	TypeString = "string"
	TypeNumber = "number"
)

// Field describes one schema field
type Field struct {
	Name     string
	Type     string
	Required bool
	Enum     []string // Allowed lowercase values, empty for free-form fields
}

// Schema is the fixed position schema. Order determines error order.
var Schema = []Field{
	{Name: "symbol", Type: TypeString, Required: true},
	{Name: "type", Type: TypeString, Required: true, Enum: domain.PositionTypes},
	{Name: "entryPrice", Type: TypeNumber, Required: true},
	{Name: "amount", Type: TypeNumber, Required: true},
	{Name: "baseAsset", Type: TypeString},
	{Name: "quoteAsset", Type: TypeString},
	{Name: "leverage", Type: TypeNumber},
	{Name: "pnl", Type: TypeNumber},
	{Name: "user", Type: TypeString},
	{Name: "timestamp", Type: TypeNumber},
}

// typeName reports the JSON type of a decoded value
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return TypeString
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return TypeNumber
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// isBlank reports whether a value counts as missing: nil or a whitespace-only string
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func allowed(enum []string, value string) bool {
	lower := strings.ToLower(value)
	for _, e := range enum {
		if e == lower {
			return true
		}
	}
	return false
}
