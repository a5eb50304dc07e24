package facet

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// NoIndexUrl is returned instead of a url when the seo limits forbid the combination.
const NoIndexUrl = "#"

// Url is the inverse of Parse. Facets are written sorted by url token, the category first and
// without a name, options only when they differ from the defaults.
func (t *Translator) Url() string {
	c := t.config()
	d := c.Delimiters

	if c.SeoContext && c.Seo.NumberOfFacetsGroups > 0 && len(t.facets) > c.Seo.NumberOfFacetsGroups {
		return NoIndexUrl
	}

	var b strings.Builder
	others := make([]Selection, 0, len(t.facets))
	for _, s := range t.facets {
		if path, ok := s.Value.(HierarchicalValue); ok && s.Id == types.CategoryFacetId {
			b.WriteString("/")
			b.WriteString(path.Path())
			continue
		}
		others = append(others, s)
	}
	slices.SortStableFunc(others, func(a, b Selection) int {
		return strings.Compare(a.Url, b.Url)
	})

	for _, s := range others {
		encoded, ok := t.encodeValue(s.Value)
		if !ok {
			return NoIndexUrl
		}
		if b.Len() == 0 {
			b.WriteString("/")
		} else {
			b.WriteString(d.BetweenDifferentFacets)
		}
		b.WriteString(url.PathEscape(s.Url))
		b.WriteString(d.BetweenFacetNameAndValue)
		b.WriteString(encoded)
	}
	if b.Len() == 0 {
		b.WriteString("/")
		b.WriteString(c.FallbackUrl)
	}

	first := true
	for _, name := range optionOrder {
		value, isDefault := t.optionString(name)
		if isDefault {
			continue
		}
		if c.SeoContext && !slices.Contains(c.Seo.Options, name) {
			return NoIndexUrl
		}
		if first {
			b.WriteString(d.BetweenFacetsAndOptions)
			first = false
		} else {
			b.WriteString(d.BetweenDifferentOptions)
		}
		b.WriteString(name)
		b.WriteString(d.BetweenOptionNameAndValue)
		b.WriteString(url.QueryEscape(value))
	}

	if t.post != nil {
		return t.post.EnsureTrackedParameters(b.String(), d)
	}
	return b.String()
}

func (t *Translator) encodeValue(v Value) (string, bool) {
	c := t.cfg
	d := c.Delimiters
	switch value := v.(type) {
	case SingleValue:
		return url.PathEscape(string(value)), true
	case MultiValue:
		if c.SeoContext && c.Seo.NumberOfFacetsValues > 0 && len(value) > c.Seo.NumberOfFacetsValues {
			return "", false
		}
		sorted := value.Sorted()
		for i := range sorted {
			sorted[i] = url.PathEscape(sorted[i])
		}
		return strings.Join(sorted, d.BetweenDifferentFacetsValues), true
	case RangeValue:
		return url.PathEscape(value.From) + d.BetweenRangeFacetsValues + url.PathEscape(value.To), true
	case HierarchicalValue:
		return url.PathEscape(value.Path()), true
	}
	return "", true
}

// optionString returns the url form of an option and whether it equals its default.
func (t *Translator) optionString(name string) (string, bool) {
	defaults := t.cfg.defaultOptions()
	switch name {
	case OptionShow:
		return strconv.Itoa(t.options.Show), t.options.Show == defaults.Show
	case OptionOrder:
		return t.options.Order, t.options.Order == defaults.Order
	case OptionPage:
		return strconv.Itoa(t.options.Page), t.options.Page == defaults.Page
	case OptionDisplay:
		return t.options.Display, t.options.Display == defaults.Display
	case OptionKeywords:
		return t.options.Keywords, t.options.Keywords == ""
	}
	return "", true
}

const (
	ApiSort   = "sort"
	ApiLimit  = "limit"
	ApiOffset = "offset"
	ApiQuery  = "q"
)

// ApiParams is the flat parameter map for the search api.
func (t *Translator) ApiParams() map[string]string {
	t.config()
	params := make(map[string]string, len(t.facets)+4)
	for _, s := range t.facets {
		switch value := s.Value.(type) {
		case RangeValue:
			params[s.Id+".from"] = value.From
			params[s.Id+".to"] = value.To
		case MultiValue:
			// the comma is part of the api contract, not the configured value delimiter
			params[s.Id] = strings.Join(value.Sorted(), ",")
		case HierarchicalValue:
			params[s.Id] = categoryPathSeparator + value.Path()
		case SingleValue:
			params[s.Id] = string(value)
		}
	}
	show := t.options.Show
	page := t.options.Page
	params[ApiSort] = t.options.Order
	params[ApiLimit] = strconv.Itoa(show)
	params[ApiOffset] = strconv.Itoa(show*page - show)
	params[ApiQuery] = t.options.Keywords
	return params
}

// ApiValues is ApiParams as url.Values, ready for a transport.
func (t *Translator) ApiValues() url.Values {
	params := t.ApiParams()
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return values
}
