package facet

import (
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-storefront/pkg/types"
)

// optionsForm accepts both the option names used in urls and the api parameter names.
type optionsForm struct {
	Show     int    `schema:"show"`
	Limit    int    `schema:"limit"`
	Order    string `schema:"order"`
	Sort     string `schema:"sort"`
	Page     int    `schema:"page"`
	Offset   int    `schema:"offset"`
	Display  string `schema:"display"`
	Keywords string `schema:"keywords"`
	Query    string `schema:"q"`
}

var optionKeys = []string{
	OptionShow, ApiLimit, OptionOrder, ApiSort, OptionPage, ApiOffset, OptionDisplay, OptionKeywords, ApiQuery,
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// ParseOptions builds a translator from option or api shaped parameters. Keys that resolve to a
// configured facet by url token or id become facets, range facets may use the id.from and id.to form.
// ParseOptions(t.ApiValues()) reproduces t.
func (c *Configuration) ParseOptions(values url.Values) *Translator {
	t := c.Empty()
	defaults := c.defaultOptions()

	form := optionsForm{}
	// conversion errors leave the field at its zero value, which falls back to the default
	_ = decoder.Decode(&form, values)

	t.options.Show = firstPositive(defaults.Show, form.Show, form.Limit)
	t.options.Order = firstNonEmpty(defaults.Order, form.Order, form.Sort)
	t.options.Display = firstNonEmpty(defaults.Display, form.Display)
	t.options.Keywords = firstNonEmpty("", form.Keywords, form.Query)
	switch {
	case form.Page > 0:
		t.options.Page = form.Page
	case form.Offset > 0:
		t.options.Page = form.Offset/t.options.Show + 1
	default:
		t.options.Page = 1
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if !slices.Contains(optionKeys, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	ranges := map[string]RangeValue{}
	for _, key := range keys {
		raw := values[key]
		if len(raw) == 0 {
			continue
		}
		if id, found := strings.CutSuffix(key, ".from"); found {
			r := ranges[id]
			r.From = raw[0]
			ranges[id] = r
			continue
		}
		if id, found := strings.CutSuffix(key, ".to"); found {
			r := ranges[id]
			r.To = raw[0]
			ranges[id] = r
			continue
		}
		config, configured := c.resolve(key)
		if !configured {
			continue
		}
		if value, ok := c.valueFromParams(config, raw); ok {
			t.setFacet(Selection{Id: config.Id, Url: config.UrlToken(), Value: value, Config: config})
		}
	}

	ids := make([]string, 0, len(ranges))
	for id := range ranges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		config, configured := c.resolve(id)
		if !configured {
			continue
		}
		r := ranges[id]
		if r.From == "" {
			r.From = "0"
		}
		if r.To == "" {
			continue
		}
		t.setFacet(Selection{Id: config.Id, Url: config.UrlToken(), Value: r, Config: config})
	}
	return t
}

func (c *Configuration) valueFromParams(config types.FacetConfig, raw []string) (Value, bool) {
	identity := func(s string) string { return s }
	if config.Behavior != types.BehaviorMulti {
		return sanitize(raw[0], config.Behavior, c.Delimiters, identity)
	}
	values := MultiValue{}
	for _, r := range raw {
		for _, part := range splitTokens(r, ",", c.Delimiters.BetweenDifferentFacetsValues) {
			if part != "" && !values.Contains(part) {
				values = append(values, part)
			}
		}
	}
	return values, len(values) > 0
}

func firstPositive(fallback int, candidates ...int) int {
	for _, c := range candidates {
		if c > 0 {
			return c
		}
	}
	return fallback
}

func firstNonEmpty(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return fallback
}
