package spell

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Parameters are the string keyed values that configure a spell. Values come
// from spells.yml, where they keep their YAML types, or from the cast
// command, where every value is a string.
type Parameters map[string]any

// ParseArgs parses cast arguments. Arguments are either key=value or a key
// followed by its value.
func ParseArgs(args []string) Parameters {
	p := Parameters{}
	for i := 0; i < len(args); i++ {
		arg := strings.TrimSpace(args[i])
		if arg == "" {
			continue
		}
		if k, v, ok := strings.Cut(arg, "="); ok {
			p[strings.ToLower(k)] = v
			continue
		}
		if i+1 < len(args) {
			p[strings.ToLower(arg)] = args[i+1]
			i++
			continue
		}
		p[strings.ToLower(arg)] = "true"
	}
	return p
}

// Merge returns a copy of p overridden by the values in o.
func (p Parameters) Merge(o Parameters) Parameters {
	m := make(Parameters, len(p)+len(o))
	maps.Copy(m, p)
	maps.Copy(m, o)
	return m
}

// Keys returns the sorted keys of p.
func (p Parameters) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Has reports whether any of the keys passed is set.
func (p Parameters) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := p[k]; ok {
			return true
		}
	}
	return false
}

// Bool returns the value of the last key passed that holds a boolean, or def.
// Later keys override earlier ones.
func (p Parameters) Bool(def bool, keys ...string) bool {
	v := def
	for _, k := range keys {
		if b, ok := toBool(p[k]); ok {
			v = b
		}
	}
	return v
}

// Int works like Bool for integers.
func (p Parameters) Int(def int, keys ...string) int {
	v := def
	for _, k := range keys {
		if f, ok := toFloat(p[k]); ok {
			v = int(f)
		}
	}
	return v
}

// Float works like Bool for floating point numbers.
func (p Parameters) Float(def float64, keys ...string) float64 {
	v := def
	for _, k := range keys {
		if f, ok := toFloat(p[k]); ok {
			v = f
		}
	}
	return v
}

// String works like Bool for strings. Non-string values are formatted.
func (p Parameters) String(def string, keys ...string) string {
	v := def
	for _, k := range keys {
		switch val := p[k].(type) {
		case nil:
		case string:
			v = val
		default:
			v = fmt.Sprint(val)
		}
	}
	return v
}

// Duration works like Bool for durations. Numbers are milliseconds; strings
// are either milliseconds or a Go duration such as "7s".
func (p Parameters) Duration(def time.Duration, keys ...string) time.Duration {
	v := def
	for _, k := range keys {
		switch val := p[k].(type) {
		case nil:
		case time.Duration:
			v = val
		case string:
			if d, err := time.ParseDuration(val); err == nil {
				v = d
			} else if ms, err := strconv.ParseFloat(val, 64); err == nil {
				v = time.Duration(ms * float64(time.Millisecond))
			}
		default:
			if ms, ok := toFloat(val); ok {
				v = time.Duration(ms * float64(time.Millisecond))
			}
		}
	}
	return v
}

// Strings returns the value of the first key set as a list. Lists may be YAML
// sequences or comma separated strings.
func (p Parameters) Strings(keys ...string) []string {
	for _, k := range keys {
		switch val := p[k].(type) {
		case nil:
			continue
		case []string:
			return slices.Clone(val)
		case []any:
			s := make([]string, 0, len(val))
			for _, e := range val {
				s = append(s, strings.TrimSpace(fmt.Sprint(e)))
			}
			return s
		default:
			var s []string
			for _, e := range strings.Split(fmt.Sprint(val), ",") {
				if e = strings.TrimSpace(e); e != "" {
					s = append(s, e)
				}
			}
			return s
		}
	}
	return nil
}

func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	case int:
		return val != 0, true
	case float64:
		return val != 0, true
	}
	return false, false
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}
