package server

import (
	"github.com/matst80/slask-storefront/pkg/content"
	"github.com/matst80/slask-storefront/pkg/facet"
)

type TranslateResponse struct {
	Facets    []facet.Selection `json:"facets"`
	Options   facet.Options     `json:"options"`
	Url       string            `json:"url"`
	Canonical string            `json:"canonical"`
	ApiParams map[string]string `json:"apiParams"`
	Title     string            `json:"title,omitempty"`
}

// LinkRequest selects one clone operation. The first populated field in the
// order Reset, ClearFacets, Without, Facet, RemoveOption, Option wins.
type LinkRequest struct {
	Url          string `schema:"url"`
	Facet        string `schema:"facet"`
	Value        string `schema:"value"`
	Without      string `schema:"without"`
	Option       string `schema:"option"`
	RemoveOption string `schema:"remove_option"`
	ClearFacets  bool   `schema:"clear"`
	Reset        bool   `schema:"reset"`
}

type LinkResponse struct {
	Url   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type ContentResponse struct {
	Pattern content.Pattern `json:"pattern"`
	Page    any             `json:"page,omitempty"`
}

type SeedRequest struct {
	Url    string              `json:"url"`
	Params map[string][]string `json:"params,omitempty"`
	Status int                 `json:"status,omitempty"`
	Body   string              `json:"body"`
}

type CacheResponse struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed,omitempty"`
}

type PatternsResponse struct {
	Patterns int `json:"patterns"`
	Landing  int `json:"landing"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
