package facet

import (
	"github.com/matst80/slask-storefront/pkg/types"
)

// CloneForFacetId toggles a raw value into or out of a facet and resets paging.
// Multi facets add or remove the single value, other behaviors set the value or
// clear the facet when it is already selected.
func (t *Translator) CloneForFacetId(id, raw string) *Translator {
	config := t.config().configForId(id)
	if config.Behavior == types.BehaviorMulti {
		if raw == "" {
			return t.CloneWithoutFacetId(id)
		}
		return t.CloneForFacetValue(id, MultiValue{raw})
	}
	value, ok := sanitize(raw, config.Behavior, t.cfg.Delimiters, func(s string) string { return s })
	if !ok {
		return t.CloneWithoutFacetId(id)
	}
	return t.CloneForFacetValue(id, value)
}

// CloneForFacetValue is CloneForFacetId with an already shaped value.
func (t *Translator) CloneForFacetValue(id string, value Value) *Translator {
	config := t.config().configForId(id)
	clone := t.clone()
	clone.options.Page = 1

	current, selected := t.Facet(id)
	if toggled, ok := value.(MultiValue); ok && config.Behavior == types.BehaviorMulti {
		next := MultiValue{}
		if selected {
			if existing, isMulti := current.Value.(MultiValue); isMulti {
				next = existing
			}
		}
		for _, v := range toggled {
			next = next.toggle(v)
		}
		if len(next) == 0 {
			clone.removeFacet(id)
			return clone
		}
		clone.setFacet(Selection{Id: config.Id, Url: config.UrlToken(), Value: next, Config: config})
		return clone
	}

	if selected && valuesEqual(current.Value, value) {
		clone.removeFacet(id)
		return clone
	}
	clone.setFacet(Selection{Id: config.Id, Url: config.UrlToken(), Value: value, Config: config})
	return clone
}

func (t *Translator) CloneWithoutFacetId(id string) *Translator {
	clone := t.clone()
	clone.removeFacet(id)
	clone.options.Page = 1
	return clone
}

// CloneWithoutFacets removes every facet except the category.
func (t *Translator) CloneWithoutFacets() *Translator {
	clone := t.clone()
	kept := clone.facets[:0]
	for _, s := range clone.facets {
		if s.Id == types.CategoryFacetId {
			kept = append(kept, s)
		}
	}
	clone.facets = kept
	clone.options.Page = 1
	return clone
}

// CloneForOption sets one option from its url form. Changing anything but the page resets paging.
func (t *Translator) CloneForOption(name, value string) *Translator {
	clone := t.clone()
	clone.applyOption(name, value)
	if name != OptionPage {
		clone.options.Page = 1
	}
	return clone
}

func (t *Translator) CloneForOptions(options map[string]string) *Translator {
	clone := t.clone()
	resetPage := false
	for name, value := range options {
		clone.applyOption(name, value)
		if name != OptionPage {
			resetPage = true
		}
	}
	if _, hasPage := options[OptionPage]; resetPage && !hasPage {
		clone.options.Page = 1
	}
	return clone
}

// CloneWithoutOption restores one option to its default.
func (t *Translator) CloneWithoutOption(name string) *Translator {
	clone := t.clone()
	defaults := t.cfg.defaultOptions()
	switch name {
	case OptionShow:
		clone.options.Show = defaults.Show
	case OptionOrder:
		clone.options.Order = defaults.Order
	case OptionDisplay:
		clone.options.Display = defaults.Display
	case OptionKeywords:
		clone.options.Keywords = ""
	case OptionPage:
	default:
		return clone
	}
	clone.options.Page = 1
	return clone
}

// ResetAll returns an empty state bound to the same configuration.
func (t *Translator) ResetAll() *Translator {
	empty := t.config().Empty()
	empty.post = t.post
	return empty
}
