package detect

import (
	"fmt"
	"math"
)

// ParamType describes the expected value type of a method option.
type ParamType string

const (
	ParamString    ParamType = "string"
	ParamInt       ParamType = "int"
	ParamFloat     ParamType = "float"
	ParamBool      ParamType = "bool"
	ParamStringMap ParamType = "string_map" // map of string -> string, e.g. category -> pattern
)

// ParamSpec declares one option of a method descriptor: its type, default
// and optional constraints.
type ParamSpec struct {
	Type    ParamType `json:"type"`
	Default any       `json:"default,omitempty"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Enum    []string  `json:"enum,omitempty"`
	Doc     string    `json:"doc,omitempty"`
}

// Descriptor describes one registered detection method. Immutable after
// registration.
type Descriptor struct {
	Identifier string               `json:"identifier"`
	Family     Family               `json:"family"`
	Doc        string               `json:"doc,omitempty"`
	Params     map[string]ParamSpec `json:"params,omitempty"`
}

// Params holds caller-supplied method options after schema validation.
// Values arriving over JSON keep their decoded types (float64 for numbers),
// so the getters coerce.
type Params map[string]any

// String returns the string value for key, or def when absent.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Int returns the integer value for key, or def when absent. JSON numbers
// decode as float64, so integral floats are accepted.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Int64 returns the int64 value for key, or def when absent.
func (p Params) Int64(key string, def int64) int64 {
	switch v := p[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return def
}

// Float returns the float value for key, or def when absent.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Bool returns the bool value for key, or def when absent.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// StringMap returns the string map value for key, or nil when absent.
// JSON objects decode as map[string]any, so both forms are accepted.
func (p Params) StringMap(key string) map[string]string {
	switch v := p[key].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			s, ok := raw.(string)
			if !ok {
				return nil
			}
			out[k] = s
		}
		return out
	}
	return nil
}

// CheckValue validates a caller-supplied value against the schema. It returns
// a descriptive message when the value violates the declared type or range.
func (s ParamSpec) CheckValue(name string, value any) error {
	switch s.Type {
	case ParamString:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("param %q must be a string", name)
		}
		if len(s.Enum) > 0 {
			for _, e := range s.Enum {
				if e == str {
					return nil
				}
			}
			return fmt.Errorf("param %q must be one of %v, got %q", name, s.Enum, str)
		}
	case ParamInt:
		f, ok := numericValue(value)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("param %q must be an integer", name)
		}
		return s.checkRange(name, f)
	case ParamFloat:
		f, ok := numericValue(value)
		if !ok {
			return fmt.Errorf("param %q must be a number", name)
		}
		return s.checkRange(name, f)
	case ParamBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("param %q must be a boolean", name)
		}
	case ParamStringMap:
		if !isStringMap(value) {
			return fmt.Errorf("param %q must be a map of string to string", name)
		}
	default:
		return fmt.Errorf("param %q has unsupported type %q", name, s.Type)
	}
	return nil
}

func (s ParamSpec) checkRange(name string, f float64) error {
	if s.Min != nil && f < *s.Min {
		return fmt.Errorf("param %q must be >= %v, got %v", name, *s.Min, f)
	}
	if s.Max != nil && f > *s.Max {
		return fmt.Errorf("param %q must be <= %v, got %v", name, *s.Max, f)
	}
	return nil
}

func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func isStringMap(value any) bool {
	switch v := value.(type) {
	case map[string]string:
		return true
	case map[string]any:
		for _, raw := range v {
			if _, ok := raw.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// MinOf and MaxOf are convenience helpers for descriptor literals.
func MinOf(v float64) *float64 { return &v }
func MaxOf(v float64) *float64 { return &v }
