package expression

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// MergeBuiltins returns a copy of params with the Sandbox Evaluator's
// whitelisted builtins (len, min, max, sum, sorted) and namespaced modules
// (regex, datetime) added under their own keys; a caller-supplied
// identifier of the same name is replaced by the builtin. Builtins are added fresh on
// every call rather than baked into a shared global, so nothing here is
// shared mutable state across walks.
func MergeBuiltins(params map[string]any) map[string]any {
	env := make(map[string]any, len(params)+2)
	for k, v := range params {
		env[k] = v
	}

	env["len"] = builtinLen
	env["min"] = builtinMin
	env["max"] = builtinMax
	env["sum"] = builtinSum
	env["sorted"] = builtinSorted
	env["regex"] = regexModule()
	env["datetime"] = datetimeModule()

	return env
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func builtinLen(v any) int {
	switch t := v.(type) {
	case string:
		return len(t)
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	default:
		return 0
	}
}

func builtinSum(items []any) (float64, error) {
	var total float64
	for _, v := range items {
		n, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("sum(): non-numeric element %v", v)
		}
		total += n
	}
	return total, nil
}

func builtinMin(items []any) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("min(): empty input")
	}
	best, ok := toFloat(items[0])
	if !ok {
		return 0, fmt.Errorf("min(): non-numeric element %v", items[0])
	}
	for _, v := range items[1:] {
		n, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("min(): non-numeric element %v", v)
		}
		if n < best {
			best = n
		}
	}
	return best, nil
}

func builtinMax(items []any) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("max(): empty input")
	}
	best, ok := toFloat(items[0])
	if !ok {
		return 0, fmt.Errorf("max(): non-numeric element %v", items[0])
	}
	for _, v := range items[1:] {
		n, ok := toFloat(v)
		if !ok {
			return 0, fmt.Errorf("max(): non-numeric element %v", v)
		}
		if n > best {
			best = n
		}
	}
	return best, nil
}

func builtinSorted(items []any) []any {
	out := make([]any, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, aOK := toFloat(out[i])
		b, bOK := toFloat(out[j])
		if aOK && bOK {
			return a < b
		}
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return out
}

func regexModule() map[string]any {
	return map[string]any{
		"Match": func(pattern, s string) (bool, error) {
			return regexp.MatchString(pattern, s)
		},
		"Replace": func(pattern, s, repl string) (string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return "", err
			}
			return re.ReplaceAllString(s, repl), nil
		},
		"Find": func(pattern, s string) (string, error) {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return "", err
			}
			return re.FindString(s), nil
		},
	}
}

var dateTimeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseDateTimeValue(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range dateTimeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("datetime: unrecognized format %q", t)
	case float64:
		return time.Unix(int64(t), 0).UTC(), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("datetime: unsupported type %T", v)
	}
}

func datetimeModule() map[string]any {
	return map[string]any{
		"Now": func() time.Time { return time.Now().UTC() },
		"Parse": func(v any) (time.Time, error) {
			return parseDateTimeValue(v)
		},
		"Diff": func(a, b any) (float64, error) {
			ta, err := parseDateTimeValue(a)
			if err != nil {
				return 0, err
			}
			tb, err := parseDateTimeValue(b)
			if err != nil {
				return 0, err
			}
			return ta.Sub(tb).Seconds(), nil
		},
		"AddSeconds": func(v any, seconds float64) (time.Time, error) {
			t, err := parseDateTimeValue(v)
			if err != nil {
				return time.Time{}, err
			}
			return t.Add(time.Duration(seconds) * time.Second), nil
		},
		"Year":  func(v any) (int, error) { t, err := parseDateTimeValue(v); return t.Year(), err },
		"Month": func(v any) (int, error) { t, err := parseDateTimeValue(v); return int(t.Month()), err },
		"Day":   func(v any) (int, error) { t, err := parseDateTimeValue(v); return t.Day(), err },
	}
}
