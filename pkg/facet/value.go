package facet

import (
	"slices"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Value is the set of facet value shapes. Only the types in this file implement it.
type Value interface {
	Behavior() types.Behavior
	isValue()
}

type SingleValue string

type MultiValue []string

type RangeValue struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// HierarchicalValue is a path of url components, root first.
type HierarchicalValue []string

func (SingleValue) Behavior() types.Behavior       { return types.BehaviorSingle }
func (MultiValue) Behavior() types.Behavior        { return types.BehaviorMulti }
func (RangeValue) Behavior() types.Behavior        { return types.BehaviorRange }
func (HierarchicalValue) Behavior() types.Behavior { return types.BehaviorHierarchical }

func (SingleValue) isValue()       {}
func (MultiValue) isValue()        {}
func (RangeValue) isValue()        {}
func (HierarchicalValue) isValue() {}

const categoryPathSeparator = "/"

func (v MultiValue) Contains(value string) bool {
	return slices.Contains(v, value)
}

func (v MultiValue) Sorted() MultiValue {
	sorted := slices.Clone(v)
	slices.Sort(sorted)
	return sorted
}

func (v MultiValue) toggle(value string) MultiValue {
	if v.Contains(value) {
		return slices.DeleteFunc(slices.Clone(v), func(s string) bool {
			return s == value
		})
	}
	return append(slices.Clone(v), value)
}

func (v HierarchicalValue) Path() string {
	return strings.Join(v, categoryPathSeparator)
}

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case SingleValue:
		bv, ok := b.(SingleValue)
		return ok && av == bv
	case MultiValue:
		bv, ok := b.(MultiValue)
		return ok && slices.Equal(av.Sorted(), bv.Sorted())
	case RangeValue:
		bv, ok := b.(RangeValue)
		return ok && av == bv
	case HierarchicalValue:
		bv, ok := b.(HierarchicalValue)
		return ok && slices.Equal(av, bv)
	}
	return false
}

// sanitize turns a raw url value into the shape its behavior requires.
// decode is applied to every piece after splitting. An empty result means the value is dropped.
func sanitize(raw string, behavior types.Behavior, d types.Delimiters, decode func(string) string) (Value, bool) {
	if raw == "" {
		return nil, false
	}
	switch behavior {
	case types.BehaviorRange:
		if from, to, found := strings.Cut(raw, d.BetweenRangeFacetsValues); found {
			return RangeValue{From: decode(from), To: decode(to)}, true
		}
		return RangeValue{From: "0", To: decode(raw)}, true
	case types.BehaviorMulti:
		values := make(MultiValue, 0, 1)
		for _, part := range strings.Split(raw, d.BetweenDifferentFacetsValues) {
			if part == "" || values.Contains(decode(part)) {
				continue
			}
			values = append(values, decode(part))
		}
		if len(values) == 0 {
			return nil, false
		}
		return values, true
	case types.BehaviorHierarchical:
		path := make(HierarchicalValue, 0)
		for _, part := range strings.Split(strings.Trim(decode(raw), categoryPathSeparator), categoryPathSeparator) {
			if part != "" {
				path = append(path, part)
			}
		}
		if len(path) == 0 {
			return nil, false
		}
		return path, true
	default:
		return SingleValue(decode(raw)), true
	}
}

// display renders a value for titles.
func display(v Value) string {
	switch value := v.(type) {
	case SingleValue:
		return string(value)
	case MultiValue:
		return strings.Join(value.Sorted(), ", ")
	case RangeValue:
		return value.From + " - " + value.To
	case HierarchicalValue:
		return strings.Join(value, " / ")
	}
	return ""
}
