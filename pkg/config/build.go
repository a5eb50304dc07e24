package config

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/facet"
)

// TranslatorConfiguration builds the facet translator configuration, with
// the category tree attached when categories are configured. The seo limits
// are always set but only enforced up front when seo_context is on.
func (c *Config) TranslatorConfiguration(opts ...facet.Option) (*facet.Configuration, error) {
	t := c.Translator
	base := []facet.Option{
		facet.WithFallbackUrl(t.FallbackUrl),
		facet.WithDelimiters(t.Delimiters),
		facet.WithDefaults(t.Defaults),
		facet.WithSeoLimits(t.Seo),
	}
	if t.SeoContext {
		base = append(base, facet.WithSeoContext(t.Seo))
	}
	if len(c.Categories) > 0 {
		base = append(base, facet.WithCategories(facet.NewCategoryTree(c.Categories)))
	}
	return facet.NewConfiguration(t.Facets, append(base, opts...)...)
}

func (l LogConfig) Apply() error {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if l.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
