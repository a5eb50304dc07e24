package facet

import (
	"slices"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Selection is one active facet constraint.
type Selection struct {
	Id     string            `json:"id"`
	Url    string            `json:"url"`
	Value  Value             `json:"value"`
	Config types.FacetConfig `json:"config"`
}

// Options holds paging, sorting, display and keyword state.
type Options struct {
	Show     int    `json:"show"`
	Order    string `json:"order"`
	Page     int    `json:"page"`
	Display  string `json:"display"`
	Keywords string `json:"keywords,omitempty"`
}

const (
	OptionShow     = "show"
	OptionOrder    = "order"
	OptionPage     = "page"
	OptionDisplay  = "display"
	OptionKeywords = "keywords"
)

// optionOrder is the order options are written in urls.
var optionOrder = []string{OptionOrder, OptionPage, OptionShow, OptionDisplay, OptionKeywords}

// Translator is an immutable facet and option state. All clone methods return a new Translator.
type Translator struct {
	cfg     *Configuration
	facets  []Selection
	options Options
	post    UrlPostProcessor
}

func (c *Configuration) Empty() *Translator {
	c.mustBeConfigured()
	return &Translator{
		cfg:     c,
		facets:  make([]Selection, 0),
		options: c.defaultOptions(),
		post:    c.PostProcessor,
	}
}

// FromState builds a translator from already structured state, taken as is.
func (c *Configuration) FromState(facets []Selection, options Options) *Translator {
	t := c.Empty()
	t.facets = slices.Clone(facets)
	t.options = options
	return t
}

func (t *Translator) config() *Configuration {
	if t == nil || t.cfg == nil {
		panic(ErrNotConfigured)
	}
	return t.cfg
}

func (t *Translator) Configuration() *Configuration {
	return t.config()
}

// WithPostProcessor binds the url post processor used by Url, typically a session.
func (t *Translator) WithPostProcessor(p UrlPostProcessor) *Translator {
	clone := t.clone()
	clone.post = p
	return clone
}

func (t *Translator) clone() *Translator {
	t.config()
	return &Translator{
		cfg:     t.cfg,
		facets:  slices.Clone(t.facets),
		options: t.options,
		post:    t.post,
	}
}

func (t *Translator) Facets() []Selection {
	t.config()
	return slices.Clone(t.facets)
}

func (t *Translator) Options() Options {
	t.config()
	return t.options
}

func (t *Translator) indexOf(id string) int {
	return slices.IndexFunc(t.facets, func(s Selection) bool {
		return s.Id == id
	})
}

func (t *Translator) Facet(id string) (Selection, bool) {
	t.config()
	if idx := t.indexOf(id); idx >= 0 {
		return t.facets[idx], true
	}
	return Selection{}, false
}

func (t *Translator) FacetValue(id string) (Value, bool) {
	s, ok := t.Facet(id)
	if !ok {
		return nil, false
	}
	return s.Value, true
}

// setFacet keeps at most one selection per id; a later selection replaces the earlier one.
func (t *Translator) setFacet(s Selection) {
	if idx := t.indexOf(s.Id); idx >= 0 {
		t.facets[idx] = s
		return
	}
	t.facets = append(t.facets, s)
}

func (t *Translator) removeFacet(id string) {
	t.facets = slices.DeleteFunc(t.facets, func(s Selection) bool {
		return s.Id == id
	})
}

// Title renders the selected facets with their title tokens, "$(0)" being replaced by the value.
func (t *Translator) Title() string {
	t.config()
	parts := make([]string, 0, len(t.facets))
	for _, s := range t.facets {
		token := s.Config.TitleToken
		if token == "" {
			token = "$(0)"
		}
		parts = append(parts, strings.ReplaceAll(token, "$(0)", display(s.Value)))
	}
	return strings.Join(parts, ", ")
}
