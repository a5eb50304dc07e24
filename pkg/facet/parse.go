package facet

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Parse builds a translator from a url path. Malformed input degrades to defaults, it never fails.
func (c *Configuration) Parse(rawUrl string) *Translator {
	t := c.Empty()
	d := c.Delimiters

	rawUrl = strings.TrimPrefix(rawUrl, "/")
	facetsPart, optionsPart, _ := strings.Cut(rawUrl, d.BetweenFacetsAndOptions)
	facetsPart = strings.TrimSuffix(facetsPart, d.BetweenDifferentFacets)
	if facetsPart == c.FallbackUrl {
		facetsPart = ""
	}

	t.parseFacets(facetsPart)
	t.parseOptions(optionsPart)
	return t
}

func (t *Translator) parseFacets(facetsPart string) {
	if facetsPart == "" {
		return
	}
	c := t.cfg
	d := c.Delimiters

	facetsPart = t.parseCategory(facetsPart)

	tokens := splitTokens(facetsPart, d.BetweenDifferentFacets, d.BetweenFacetNameAndValue)
	for i := 0; i+1 < len(tokens); i += 2 {
		name := decodePath(tokens[i])
		if name == "" || tokens[i+1] == "" || name == types.CategoryFacetId {
			continue
		}
		config, _ := c.resolve(name)
		if config.Id == types.CategoryFacetId {
			continue
		}
		value, ok := sanitize(tokens[i+1], config.Behavior, d, decodePath)
		if !ok {
			continue
		}
		t.setFacet(Selection{
			Id:     config.Id,
			Url:    config.UrlToken(),
			Value:  value,
			Config: config,
		})
	}
}

// parseCategory strips the longest prefix of the facets part that matches the category tree.
// The category facet is positional and carries no name in the url.
func (t *Translator) parseCategory(facetsPart string) string {
	config, ok := t.cfg.categoryConfig()
	if !ok {
		return facetsPart
	}
	line := t.cfg.Categories.GetBranchLineFromPath(facetsPart)
	if len(line) == 0 {
		return facetsPart
	}
	path := make(HierarchicalValue, 0, len(line))
	for _, node := range line {
		path = append(path, node.UrlComponent)
	}
	prefix := strings.Join(path, categoryPathSeparator)
	rest, found := strings.CutPrefix(facetsPart, prefix)
	if !found {
		return facetsPart
	}
	t.setFacet(Selection{
		Id:     config.Id,
		Url:    config.UrlToken(),
		Value:  path,
		Config: config,
	})
	return strings.TrimPrefix(rest, t.cfg.Delimiters.BetweenDifferentFacets)
}

func (t *Translator) parseOptions(optionsPart string) {
	if optionsPart == "" {
		return
	}
	d := t.cfg.Delimiters
	tokens := splitTokens(optionsPart, d.BetweenDifferentOptions, d.BetweenOptionNameAndValue)
	for i := 0; i+1 < len(tokens); i += 2 {
		if tokens[i] == "" {
			continue
		}
		t.applyOption(tokens[i], decodeQuery(tokens[i+1]))
	}
}

// applyOption sets one option from a decoded value, unknown names are ignored.
func (t *Translator) applyOption(name, raw string) {
	defaults := t.cfg.defaultOptions()
	switch name {
	case OptionShow:
		t.options.Show = positiveOr(raw, defaults.Show)
	case OptionOrder:
		t.options.Order = raw
		if t.options.Order == "" {
			t.options.Order = defaults.Order
		}
	case OptionPage:
		t.options.Page = positiveOr(raw, 1)
	case OptionDisplay:
		t.options.Display = raw
		if t.options.Display == "" {
			t.options.Display = defaults.Display
		}
	case OptionKeywords:
		t.options.Keywords = raw
	}
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// splitTokens splits on any of the separators. Empty tokens are kept so
// name/value pairs stay aligned.
func splitTokens(s string, separators ...string) []string {
	tokens := []string{s}
	for _, sep := range separators {
		next := make([]string, 0, len(tokens))
		for _, token := range tokens {
			next = append(next, strings.Split(token, sep)...)
		}
		tokens = next
	}
	return tokens
}

func decodePath(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

func decodeQuery(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}
