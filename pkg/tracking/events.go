package tracking

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/messaging"
)

type Tracking interface {
	TrackSession(session *Session, r *http.Request)
	TrackNavigation(session *Session, event NavigationEvent)
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent    string            `json:"user_agent,omitempty"`
	Ip           string            `json:"ip,omitempty"`
	Language     string            `json:"language,omitempty"`
	PragmaHeader string            `json:"pragma,omitempty"`
	Params       map[string]string `json:"params,omitempty"`
}

// NavigationEvent describes a translated facet url.
type NavigationEvent struct {
	*BaseEvent
	Url     string            `json:"url"`
	Facets  int               `json:"facets"`
	Page    int               `json:"page"`
	Query   string            `json:"query,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Referer string            `json:"referer,omitempty"`
}

const (
	eventSession    uint16 = 0
	eventNavigation uint16 = 1
)

// RabbitTracking publishes session and navigation events to the tracking topic.
type RabbitTracking struct {
	country   string
	publisher messaging.Publisher
}

func NewRabbitTracking(publisher messaging.Publisher, country string) *RabbitTracking {
	return &RabbitTracking{publisher: publisher, country: country}
}

func (rt *RabbitTracking) base(session *Session, event uint16) *BaseEvent {
	return &BaseEvent{Event: event, SessionId: session.Id, Country: rt.country, Context: "b2c"}
}

func (rt *RabbitTracking) send(data any) {
	if err := rt.publisher.Publish(context.Background(), messaging.Tracking, data); err != nil {
		log.WithError(err).Warn("Error sending tracking event")
	}
}

func (rt *RabbitTracking) TrackSession(session *Session, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	rt.send(SessionEvent{
		BaseEvent:    rt.base(session, eventSession),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           ip,
		PragmaHeader: r.Header.Get("Pragma"),
		Params:       flatten(session.Params()),
	})
}

func (rt *RabbitTracking) TrackNavigation(session *Session, event NavigationEvent) {
	event.BaseEvent = rt.base(session, eventNavigation)
	rt.send(event)
}

func flatten(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	ret := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			ret[k] = v[0]
		}
	}
	return ret
}
