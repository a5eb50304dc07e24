package content

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

const Wildcard = "*"

type Kind int

const (
	KindExact Kind = iota
	KindWildcard
	KindFallback
)

func (k Kind) String() string {
	switch k {
	case KindWildcard:
		return "wildcard"
	case KindFallback:
		return "fallback"
	default:
		return "exact"
	}
}

type Pattern struct {
	types.PatternRecord
	Kind Kind `json:"kind"`
}

type node struct {
	pattern  Pattern
	matcher  *regexp.Regexp
	children []int
}

// Graph is an immutable snapshot of a pattern table. Wildcard patterns live in
// an arena where index 0 is the root and every other index is a pattern in
// registration order.
type Graph struct {
	nodes    []node
	byQuery  map[string]int
	exact    map[string]Pattern
	fallback *Pattern
	landing  []Pattern
	records  []types.PatternRecord
}

func compileMatcher(query string) *regexp.Regexp {
	parts := strings.Split(query, Wildcard)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, "(.*?)") + "$")
}

// BuildGraph classifies every record and links the wildcard ones from least
// to most specific.
func BuildGraph(records []types.PatternRecord) *Graph {
	g := &Graph{
		nodes:   []node{{}},
		byQuery: make(map[string]int),
		exact:   make(map[string]Pattern),
		landing: make([]Pattern, 0),
		records: slices.Clone(records),
	}
	landingIdx := make(map[string]int)
	for _, record := range records {
		landing := record.IsLandingPage()
		switch {
		case record.Query == Wildcard && !landing:
			if g.fallback == nil {
				g.fallback = &Pattern{PatternRecord: record, Kind: KindFallback}
			}
		case strings.Contains(record.Query, Wildcard) && !landing:
			if _, found := g.byQuery[record.Query]; found {
				continue
			}
			idx := len(g.nodes)
			g.nodes = append(g.nodes, node{
				pattern: Pattern{PatternRecord: record, Kind: KindWildcard},
				matcher: compileMatcher(record.Query),
			})
			g.byQuery[record.Query] = idx
			g.insert(idx)
		default:
			p := Pattern{PatternRecord: record, Kind: KindExact}
			g.exact[record.Query] = p
			if !landing {
				continue
			}
			if i, found := landingIdx[record.Query]; found {
				g.landing[i] = p
			} else {
				landingIdx[record.Query] = len(g.landing)
				g.landing = append(g.landing, p)
			}
		}
	}
	return g
}

func (g *Graph) insert(idx int) {
	g.insertUnder(0, idx)
	n := &g.nodes[idx]
	for other := 1; other < idx; other++ {
		if n.matcher.MatchString(g.nodes[other].pattern.Query) {
			g.link(idx, other)
		}
	}
}

func (g *Graph) insertUnder(parent, idx int) {
	n := g.nodes[idx]
	contained := false
	kept := make([]int, 0, len(g.nodes[parent].children))
	for _, child := range g.nodes[parent].children {
		if child == idx {
			kept = append(kept, child)
			contained = true
			continue
		}
		c := g.nodes[child]
		if c.matcher.MatchString(n.pattern.Query) {
			contained = true
			g.insertUnder(child, idx)
			kept = append(kept, child)
		} else if n.matcher.MatchString(c.pattern.Query) && g.link(idx, child) {
			continue
		} else {
			kept = append(kept, child)
		}
	}
	if !contained {
		kept = append(kept, idx)
	}
	g.nodes[parent].children = kept
}

// link adds child below parent unless it is already there or would close a cycle.
func (g *Graph) link(parent, child int) bool {
	if parent == child || g.reaches(child, parent) {
		return false
	}
	if !slices.Contains(g.nodes[parent].children, child) {
		g.nodes[parent].children = append(g.nodes[parent].children, child)
	}
	return true
}

func (g *Graph) reaches(from, to int) bool {
	if from == to {
		return true
	}
	for _, c := range g.nodes[from].children {
		if g.reaches(c, to) {
			return true
		}
	}
	return false
}

// FindUrl resolves a path: exact patterns first, then the most specific
// wildcard, then the default fallback.
func (g *Graph) FindUrl(path string) (Pattern, bool) {
	if g == nil {
		return Pattern{}, false
	}
	if p, ok := g.exact[path]; ok {
		return p, true
	}
	best, bestScore := 0, 0
	g.walk(0, path, 1, 0, &best, &bestScore)
	if best > 0 {
		return g.nodes[best].pattern, true
	}
	if g.fallback != nil {
		return *g.fallback, true
	}
	return Pattern{}, false
}

func (g *Graph) walk(from int, path string, depth, score int, best, bestScore *int) {
	for _, child := range g.nodes[from].children {
		c := g.nodes[child]
		if !c.matcher.MatchString(path) {
			continue
		}
		s := score + depth
		if s > *bestScore || (s == *bestScore && child < *best) {
			*best, *bestScore = child, s
		}
		g.walk(child, path, depth+1, s, best, bestScore)
	}
}

func (g *Graph) LandingPages() []Pattern {
	if g == nil {
		return []Pattern{}
	}
	return slices.Clone(g.landing)
}

func (g *Graph) Records() []types.PatternRecord {
	if g == nil {
		return []types.PatternRecord{}
	}
	return slices.Clone(g.records)
}

// Children lists the queries directly below the wildcard node for query, or
// below the root when query is empty.
func (g *Graph) Children(query string) []string {
	idx := 0
	if query != "" {
		var ok bool
		if idx, ok = g.byQuery[query]; !ok {
			return nil
		}
	}
	ret := make([]string, 0, len(g.nodes[idx].children))
	for _, c := range g.nodes[idx].children {
		ret = append(ret, g.nodes[c].pattern.Query)
	}
	return ret
}

func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.exact) + len(g.nodes) - 1
}
