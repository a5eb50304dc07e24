package types

import (
	"errors"
	"fmt"
)

// Delimiters parameterizes the url grammar of the facet translator.
type Delimiters struct {
	BetweenFacetNameAndValue     string `json:"betweenFacetNameAndValue" mapstructure:"between_facet_name_and_value"`
	BetweenDifferentFacets       string `json:"betweenDifferentFacets" mapstructure:"between_different_facets"`
	BetweenDifferentFacetsValues string `json:"betweenDifferentFacetsValues" mapstructure:"between_different_facets_values"`
	BetweenRangeFacetsValues     string `json:"betweenRangeFacetsValues" mapstructure:"between_range_facets_values"`
	BetweenFacetsAndOptions      string `json:"betweenFacetsAndOptions" mapstructure:"between_facets_and_options"`
	BetweenOptionNameAndValue    string `json:"betweenOptionNameAndValue" mapstructure:"between_option_name_and_value"`
	BetweenDifferentOptions      string `json:"betweenDifferentOptions" mapstructure:"between_different_options"`
}

func DefaultDelimiters() Delimiters {
	return Delimiters{
		BetweenFacetNameAndValue:     "/",
		BetweenDifferentFacets:       "/",
		BetweenDifferentFacetsValues: ",",
		BetweenRangeFacetsValues:     "to",
		BetweenFacetsAndOptions:      "?",
		BetweenOptionNameAndValue:    "=",
		BetweenDifferentOptions:      "&",
	}
}

var ErrEmptyDelimiter = errors.New("empty delimiter")

func (d Delimiters) Validate() error {
	check := map[string]string{
		"between_facet_name_and_value":    d.BetweenFacetNameAndValue,
		"between_different_facets":        d.BetweenDifferentFacets,
		"between_different_facets_values": d.BetweenDifferentFacetsValues,
		"between_range_facets_values":     d.BetweenRangeFacetsValues,
		"between_facets_and_options":      d.BetweenFacetsAndOptions,
		"between_option_name_and_value":   d.BetweenOptionNameAndValue,
		"between_different_options":       d.BetweenDifferentOptions,
	}
	for name, value := range check {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrEmptyDelimiter, name)
		}
	}
	return nil
}

// SeoLimits caps which facet combinations are emitted as crawlable urls.
// Zero values disable the corresponding limit.
type SeoLimits struct {
	NumberOfFacetsGroups int      `json:"numberOfFacetsGroups" mapstructure:"number_of_facets_groups"`
	NumberOfFacetsValues int      `json:"numberOfFacetsValues" mapstructure:"number_of_facets_values"`
	Options              []string `json:"options" mapstructure:"options"`
}

// OptionDefaults are the values options fall back to and are omitted from urls when equal.
type OptionDefaults struct {
	Show    int    `json:"show" mapstructure:"show"`
	Order   string `json:"order" mapstructure:"order"`
	Display string `json:"display" mapstructure:"display"`
}

func DefaultOptionDefaults() OptionDefaults {
	return OptionDefaults{
		Show:    24,
		Order:   "relevance:asc",
		Display: "list",
	}
}
