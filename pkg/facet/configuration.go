package facet

import (
	"errors"
	"fmt"

	"github.com/matst80/slask-storefront/pkg/types"
)

// ErrNotConfigured is raised when a translator is used without a configuration.
var ErrNotConfigured = errors.New("facet translator used without configuration")

// CategoryProvider resolves a url path against the category hierarchy.
type CategoryProvider interface {
	GetBranchLineFromPath(path string) []types.CategoryNode
}

// UrlPostProcessor makes sure tracked query parameters survive link generation.
type UrlPostProcessor interface {
	EnsureTrackedParameters(url string, d types.Delimiters) string
}

// Configuration is shared by every translator created from it and is never mutated after construction.
type Configuration struct {
	FallbackUrl   string
	Delimiters    types.Delimiters
	Defaults      types.OptionDefaults
	Seo           types.SeoLimits
	SeoContext    bool
	Categories    CategoryProvider
	PostProcessor UrlPostProcessor

	facets []types.FacetConfig
	byId   map[string]int
	byUrl  map[string]int
}

type Option func(*Configuration)

func WithFallbackUrl(fallback string) Option {
	return func(c *Configuration) {
		c.FallbackUrl = fallback
	}
}

func WithDelimiters(d types.Delimiters) Option {
	return func(c *Configuration) {
		c.Delimiters = d
	}
}

func WithDefaults(defaults types.OptionDefaults) Option {
	return func(c *Configuration) {
		c.Defaults = defaults
	}
}

// WithSeoLimits sets the limits without enforcing them, see InSeoContext.
func WithSeoLimits(limits types.SeoLimits) Option {
	return func(c *Configuration) {
		c.Seo = limits
	}
}

// WithSeoContext enables the seo limits, used when rendering for crawlers.
func WithSeoContext(limits types.SeoLimits) Option {
	return func(c *Configuration) {
		c.Seo = limits
		c.SeoContext = true
	}
}

func WithCategories(provider CategoryProvider) Option {
	return func(c *Configuration) {
		c.Categories = provider
	}
}

func WithPostProcessor(p UrlPostProcessor) Option {
	return func(c *Configuration) {
		c.PostProcessor = p
	}
}

func NewConfiguration(facets []types.FacetConfig, opts ...Option) (*Configuration, error) {
	c := &Configuration{
		FallbackUrl: "search",
		Delimiters:  types.DefaultDelimiters(),
		Defaults:    types.DefaultOptionDefaults(),
		facets:      make([]types.FacetConfig, 0, len(facets)),
		byId:        make(map[string]int, len(facets)),
		byUrl:       make(map[string]int, len(facets)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Delimiters.Validate(); err != nil {
		return nil, err
	}
	if c.Defaults.Show <= 0 {
		return nil, fmt.Errorf("default show must be positive, got %d", c.Defaults.Show)
	}
	for _, f := range facets {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, found := c.byId[f.Id]; found {
			return nil, fmt.Errorf("duplicate facet config %s", f.Id)
		}
		c.byId[f.Id] = len(c.facets)
		c.byUrl[f.UrlToken()] = len(c.facets)
		c.facets = append(c.facets, f)
	}
	return c, nil
}

// WithOptions returns a copy of the configuration with the options applied.
func (c *Configuration) WithOptions(opts ...Option) *Configuration {
	c.mustBeConfigured()
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// InSeoContext returns the configuration with its seo limits enforced.
func (c *Configuration) InSeoContext() *Configuration {
	c.mustBeConfigured()
	if c.SeoContext {
		return c
	}
	return c.WithOptions(WithSeoContext(c.Seo))
}

func (c *Configuration) mustBeConfigured() {
	if c == nil {
		panic(ErrNotConfigured)
	}
}

func (c *Configuration) FacetConfig(id string) (types.FacetConfig, bool) {
	if idx, ok := c.byId[id]; ok {
		return c.facets[idx], true
	}
	return types.FacetConfig{}, false
}

func (c *Configuration) facetConfigByUrl(token string) (types.FacetConfig, bool) {
	if idx, ok := c.byUrl[token]; ok {
		return c.facets[idx], true
	}
	return types.FacetConfig{}, false
}

// resolve finds a facet config by url token, then by id. Unknown names become single value facets.
func (c *Configuration) resolve(name string) (types.FacetConfig, bool) {
	if f, ok := c.facetConfigByUrl(name); ok {
		return f, true
	}
	if f, ok := c.FacetConfig(name); ok {
		return f, true
	}
	return types.FallbackFacetConfig(name), false
}

func (c *Configuration) configForId(id string) types.FacetConfig {
	if f, ok := c.FacetConfig(id); ok {
		return f
	}
	return types.FallbackFacetConfig(id)
}

func (c *Configuration) categoryConfig() (types.FacetConfig, bool) {
	if c.Categories == nil {
		return types.FacetConfig{}, false
	}
	return c.FacetConfig(types.CategoryFacetId)
}

func (c *Configuration) defaultOptions() Options {
	return Options{
		Show:    c.Defaults.Show,
		Order:   c.Defaults.Order,
		Page:    1,
		Display: c.Defaults.Display,
	}
}
