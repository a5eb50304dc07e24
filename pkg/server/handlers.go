package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/cache"
	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/facet"
	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/tracking"
	"github.com/matst80/slask-storefront/pkg/types"
)

// configuration enforces the seo limits when the request renders for a
// crawler: a crawler user agent, or seo=true from a server side renderer.
func (ws *WebServer) configuration(r *http.Request) *facet.Configuration {
	if seo, err := strconv.ParseBool(r.URL.Query().Get("seo")); err == nil && seo {
		return ws.Translator.InSeoContext()
	}
	agent := strings.ToLower(r.UserAgent())
	for _, crawler := range ws.Crawlers {
		if crawler != "" && strings.Contains(agent, strings.ToLower(crawler)) {
			return ws.Translator.InSeoContext()
		}
	}
	return ws.Translator
}

func (ws *WebServer) translator(r *http.Request, session *tracking.Session) *facet.Translator {
	return ws.configuration(r).Parse(r.URL.Query().Get("url")).WithPostProcessor(session)
}

func (ws *WebServer) Translate(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	tr := ws.translator(r, session)
	noTranslations.Inc()

	defaultHeaders(w, r, "120")
	return enc.Encode(TranslateResponse{
		Facets:    tr.Facets(),
		Options:   tr.Options(),
		Url:       tr.Url(),
		Canonical: tr.WithPostProcessor(nil).Url(),
		ApiParams: tr.ApiParams(),
		Title:     tr.Title(),
	})
}

func (ws *WebServer) Link(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	var req LinkRequest
	if err := decoder.Decode(&req, r.URL.Query()); err != nil {
		return respondError(w, enc, http.StatusBadRequest, err.Error())
	}
	tr := ws.configuration(r).Parse(req.Url).WithPostProcessor(session)
	switch {
	case req.Reset:
		tr = tr.ResetAll()
	case req.ClearFacets:
		tr = tr.CloneWithoutFacets()
	case req.Without != "":
		tr = tr.CloneWithoutFacetId(req.Without)
	case req.Facet != "":
		tr = tr.CloneForFacetId(req.Facet, req.Value)
	case req.RemoveOption != "":
		tr = tr.CloneWithoutOption(req.RemoveOption)
	case req.Option != "":
		tr = tr.CloneForOption(req.Option, req.Value)
	}
	noLinks.Inc()

	defaultHeaders(w, r, "120")
	return enc.Encode(LinkResponse{Url: tr.Url(), Title: tr.Title()})
}

func (ws *WebServer) Search(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	tr := ws.translator(r, session)
	noSearches.Inc()

	res, err := ws.Responses.Sync(r.Context(), http.MethodGet, ws.SearchPath, tr.ApiValues())
	if err != nil {
		if errors.Is(err, cache.ErrStatus) {
			log.WithError(err).Warn("Search backend returned an error")
		}
		return respondError(w, enc, http.StatusBadGateway, err.Error())
	}

	if ws.Tracking != nil {
		opts := tr.Options()
		go ws.Tracking.TrackNavigation(session, tracking.NavigationEvent{
			Url:     tr.Url(),
			Facets:  len(tr.Facets()),
			Page:    opts.Page,
			Query:   opts.Keywords,
			Params:  tr.ApiParams(),
			Referer: r.Header.Get("Referer"),
		})
	}

	defaultHeaders(w, r, "60")
	if ct := res.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(res.Status)
	_, err = w.Write(res.Body)
	return err
}

func (ws *WebServer) ResolveContent(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	path := r.URL.Query().Get("path")
	pattern, ok := ws.Content.FindUrl(path)
	if !ok {
		noRoutes.WithLabelValues("none").Inc()
		return respondError(w, enc, http.StatusNotFound, "no content bound to "+path)
	}
	noRoutes.WithLabelValues(pattern.Kind.String()).Inc()

	ret := ContentResponse{Pattern: pattern}
	if ws.ContentPath != "" && pattern.PageId != "" {
		res, err := ws.Responses.Sync(r.Context(), http.MethodGet, ws.ContentPath+"/"+url.PathEscape(pattern.PageId), nil)
		if err != nil {
			return respondError(w, enc, http.StatusBadGateway, err.Error())
		}
		if jsoncompat.Valid(res.Body) {
			ret.Page = json.RawMessage(res.Body)
		} else {
			ret.Page = string(res.Body)
		}
	}

	defaultHeaders(w, r, "300")
	return enc.Encode(ret)
}

func (ws *WebServer) LandingPages(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	publicHeaders(w, r, "300")
	return enc.Encode(ws.Content.LandingPages())
}

func (ws *WebServer) ResetPatterns(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	var records []types.PatternRecord
	if err := jsoncompat.NewDecoder(r.Body).Decode(&records); err != nil {
		return respondError(w, enc, http.StatusBadRequest, err.Error())
	}
	ws.Content.Reset(records)

	if ws.Patterns != nil {
		if err := ws.Patterns.Save(r.Context(), records); err != nil {
			log.WithError(err).Error("Failed to persist content patterns")
		}
	}
	if ws.Publisher != nil {
		if err := ws.Publisher.Publish(r.Context(), messaging.ContentUrlsChanged, records); err != nil {
			log.WithError(err).Error("Failed to broadcast content patterns")
		}
	}

	genericHeaders(w, r)
	w.WriteHeader(http.StatusAccepted)
	return enc.Encode(PatternsResponse{
		Patterns: len(records),
		Landing:  len(ws.Content.LandingPages()),
	})
}

func (ws *WebServer) Seed(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	var req SeedRequest
	if err := jsoncompat.NewDecoder(r.Body).Decode(&req); err != nil {
		return respondError(w, enc, http.StatusBadRequest, err.Error())
	}
	if req.Url == "" {
		return respondError(w, enc, http.StatusBadRequest, "url is required")
	}
	if req.Status == 0 {
		req.Status = http.StatusOK
	}
	params := url.Values(req.Params)
	ws.Responses.Seed(req.Url, params, &cache.Response{
		Status: req.Status,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   []byte(req.Body),
	})

	genericHeaders(w, r)
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(CacheResponse{Key: cache.CacheKey(req.Url, params)})
}

func (ws *WebServer) Invalidate(w http.ResponseWriter, r *http.Request, session *tracking.Session, enc sonic.Encoder) error {
	params := r.URL.Query()
	target := params.Get("url")
	if target == "" {
		return respondError(w, enc, http.StatusBadRequest, "url is required")
	}
	params.Del("url")

	removed, err := ws.Responses.Invalidate(r.Context(), target, params)
	if err != nil {
		log.WithError(err).Warn("Failed to invalidate response store")
	}
	if ws.Publisher != nil {
		msg := messaging.InvalidateMessage{Url: target, Params: params}
		if err := ws.Publisher.Publish(r.Context(), messaging.CacheInvalidated, msg); err != nil {
			log.WithError(err).Error("Failed to broadcast invalidation")
		}
	}

	genericHeaders(w, r)
	return enc.Encode(CacheResponse{Key: cache.CacheKey(target, params), Removed: removed})
}
