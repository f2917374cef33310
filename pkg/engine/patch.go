package engine

import (
	"math"
	"reflect"
	"sort"

	"github.com/aretw0/autoprop/pkg/core"
	"github.com/aretw0/autoprop/pkg/rules"
)

// ComputePatch returns the keys of current whose value should change, plus the auto-added
// keys that current lacks.
//
// Only keys with an enabled rule are evaluated. Keys absent from current are evaluated only
// for rules with AutoAdd set, and are always included. The result is empty, never nil.
func ComputePatch(current core.Metadata, in rules.Input, set *rules.Set) core.Metadata {
	patch := make(core.Metadata)

	keys := make([]string, 0, len(current))
	for k := range current {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		r, ok := set.Lookup(k)
		if !ok {
			continue
		}
		v := r.Evaluate(in)
		if !SameValue(current[k], v) {
			patch[k] = v
		}
	}

	for _, r := range set.Rules() {
		if !r.Rule().AutoAdd {
			continue
		}
		if _, ok := current[r.Key()]; ok {
			continue
		}
		patch[r.Key()] = r.Evaluate(in)
	}

	return patch
}

// SameValue compares a stored frontmatter value with a computed one.
// Lists compare element-wise in order; numbers compare by value regardless of Go type.
func SameValue(stored, computed any) bool {
	return reflect.DeepEqual(normalize(stored), normalize(computed))
}

func normalize(v any) any {
	switch x := v.(type) {
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return float64(x)
	case float32:
		return normalize(float64(x))
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
		return x
	}
	return v
}
