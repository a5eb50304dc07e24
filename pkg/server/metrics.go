package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noTranslations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_translations_total",
		Help: "The total number of translated facet urls",
	})
	noLinks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_links_total",
		Help: "The total number of generated facet links",
	})
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_searches_total",
		Help: "The total number of proxied searches",
	})
	noRoutes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_routes_total",
		Help: "Content route lookups by outcome",
	}, []string{"kind"})
)
