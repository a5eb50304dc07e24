package content

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/matst80/slask-storefront/pkg/types"
)

// Collection holds the active Graph. Reset swaps in a freshly built graph so
// lookups never observe a partial rebuild.
type Collection struct {
	graph atomic.Pointer[Graph]
}

func NewCollection(records []types.PatternRecord) *Collection {
	c := &Collection{}
	c.Reset(records)
	return c
}

func (c *Collection) Reset(records []types.PatternRecord) {
	g := BuildGraph(records)
	c.graph.Store(g)
	log.WithFields(log.Fields{
		"patterns": len(records),
		"landing":  len(g.landing),
		"fallback": g.fallback != nil,
	}).Info("Content patterns reset")
}

func (c *Collection) Graph() *Graph {
	return c.graph.Load()
}

func (c *Collection) FindUrl(path string) (Pattern, bool) {
	return c.Graph().FindUrl(path)
}

func (c *Collection) LandingPages() []Pattern {
	return c.Graph().LandingPages()
}

func (c *Collection) Records() []types.PatternRecord {
	return c.Graph().Records()
}
