package server

import (
	"context"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/messaging"
	"github.com/matst80/slask-storefront/pkg/types"
)

// LoadPatterns replaces the configured pattern table with the persisted one
// when the store has any.
func (ws *WebServer) LoadPatterns(ctx context.Context) error {
	if ws.Patterns == nil {
		return nil
	}
	records, err := ws.Patterns.Load(ctx)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		ws.Content.Reset(records)
	}
	return nil
}

func (ws *WebServer) OnPatternsChanged(records []types.PatternRecord) error {
	log.WithField("patterns", len(records)).Info("Got content pattern update")
	ws.Content.Reset(records)
	return nil
}

func (ws *WebServer) OnInvalidate(msg messaging.InvalidateMessage) error {
	ctx := context.Background()
	var removed bool
	var err error
	if msg.Key != "" {
		removed, err = ws.Responses.InvalidateKey(ctx, msg.Key)
	} else {
		removed, err = ws.Responses.Invalidate(ctx, msg.Url, url.Values(msg.Params))
	}
	log.WithFields(log.Fields{"url": msg.Url, "key": msg.Key, "removed": removed}).Debug("Got cache invalidation")
	return err
}

func (ws *WebServer) Listen(b *messaging.RabbitBroker) error {
	if err := messaging.Subscribe(b, messaging.ContentUrlsChanged, ws.OnPatternsChanged); err != nil {
		return err
	}
	return messaging.Subscribe(b, messaging.CacheInvalidated, ws.OnInvalidate)
}
