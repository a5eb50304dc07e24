package types

import "fmt"

// Behavior selects how a facet value is shaped, encoded and decoded.
type Behavior string

const (
	BehaviorSingle       Behavior = "single"
	BehaviorMulti        Behavior = "multi"
	BehaviorRange        Behavior = "range"
	BehaviorHierarchical Behavior = "hierarchical"
)

// CategoryFacetId is the facet that is matched positionally against the category tree.
const CategoryFacetId = "category"

func (b Behavior) Valid() bool {
	switch b {
	case BehaviorSingle, BehaviorMulti, BehaviorRange, BehaviorHierarchical:
		return true
	}
	return false
}

// FacetConfig is the static configuration record of one facet.
type FacetConfig struct {
	Id         string   `json:"id" mapstructure:"id"`
	Url        string   `json:"url,omitempty" mapstructure:"url"`
	Name       string   `json:"name,omitempty" mapstructure:"name"`
	Behavior   Behavior `json:"behavior" mapstructure:"behavior"`
	Max        int      `json:"max,omitempty" mapstructure:"max"`
	TitleToken string   `json:"titleToken,omitempty" mapstructure:"title_token"`
	Priority   float64  `json:"prio,omitempty" mapstructure:"priority"`
	Macro      string   `json:"macro,omitempty" mapstructure:"macro"`
}

// UrlToken is the name used for the facet in urls.
func (f *FacetConfig) UrlToken() string {
	if f.Url != "" {
		return f.Url
	}
	return f.Id
}

func (f *FacetConfig) Validate() error {
	if f.Id == "" {
		return fmt.Errorf("facet config without id (name %q)", f.Name)
	}
	if f.Behavior == "" {
		f.Behavior = BehaviorSingle
	}
	if !f.Behavior.Valid() {
		return fmt.Errorf("facet %s: unknown behavior %q", f.Id, f.Behavior)
	}
	return nil
}

// FallbackFacetConfig is used for url tokens that are not configured.
func FallbackFacetConfig(name string) FacetConfig {
	return FacetConfig{
		Id:       name,
		Name:     name,
		Url:      name,
		Behavior: BehaviorSingle,
		Max:      5,
	}
}

// CategoryNode is one level of the category hierarchy.
type CategoryNode struct {
	Id           string         `json:"id" mapstructure:"id"`
	UrlComponent string         `json:"urlcomponent" mapstructure:"urlcomponent"`
	ItemId       string         `json:"itemid,omitempty" mapstructure:"itemid"`
	Categories   []CategoryNode `json:"categories,omitempty" mapstructure:"categories"`
}
