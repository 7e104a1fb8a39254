package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Coercer converts one raw cell value into its typed form for a field. A
// coercion failure is recorded as a row-level error by the executor; it never
// aborts the batch.
type Coercer func(field Field, raw string) (any, error)

const (
	TypeString = "string"
	TypeNumber = "number"
	TypeDate   = "date"
	TypeBool   = "bool"
)

var valueValidator = validator.New()

// DefaultCoercer builds the standard coercer: trims strings, parses numbers
// (accepting a decimal comma), parses dates under the given layout, parses
// booleans, and applies each field's optional validator tag. An empty cell
// yields nil for optional fields and an error for required ones.
func DefaultCoercer(dateLayout string) Coercer {
	return func(field Field, raw string) (any, error) {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			if field.Required {
				return nil, fmt.Errorf("missing required value for %s", field.Key)
			}
			return nil, nil
		}

		value, err := coerceTyped(field, trimmed, dateLayout)
		if err != nil {
			return nil, err
		}

		if tag := strings.TrimSpace(field.Validate); tag != "" {
			if err := valueValidator.Var(trimmed, tag); err != nil {
				return nil, fmt.Errorf("invalid %s", tag)
			}
		}

		return value, nil
	}
}

func coerceTyped(field Field, trimmed, dateLayout string) (any, error) {
	switch strings.TrimSpace(strings.ToLower(field.Type)) {
	case "", TypeString:
		return trimmed, nil
	case TypeNumber:
		return parseNumber(trimmed)
	case TypeDate:
		parsed, err := time.ParseInLocation(dateLayout, trimmed, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (expected %s)", trimmed, dateLayout)
		}
		return parsed, nil
	case TypeBool:
		return parseBool(trimmed)
	default:
		return nil, fmt.Errorf("unsupported field type %q for %s", field.Type, field.Key)
	}
}

func parseNumber(raw string) (float64, error) {
	cleaned := raw
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return value, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "yes", "y", "1":
		return true, nil
	case "false", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}

// ValidTypes lists the supported field types for configuration validation.
func ValidTypes() []string {
	return []string{TypeString, TypeNumber, TypeDate, TypeBool}
}
