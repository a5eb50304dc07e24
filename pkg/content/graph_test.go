package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matst80/slask-storefront/pkg/types"
)

func record(query, pageId string) types.PatternRecord {
	return types.PatternRecord{Query: query, PageId: pageId}
}

func landing(query, pageId string) types.PatternRecord {
	return types.PatternRecord{Query: query, PageId: pageId, Type: types.PatternTypeLanding}
}

func productPatterns() []types.PatternRecord {
	return []types.PatternRecord{
		record("/products/*", "A"),
		record("/products/shoes/*", "B"),
		record("/products/shoes/nike", "C"),
	}
}

func TestFindUrlSpecificity(t *testing.T) {
	g := BuildGraph(productPatterns())

	tests := []struct {
		path   string
		pageId string
		kind   Kind
	}{
		{"/products/shoes/nike", "C", KindExact},
		{"/products/shoes/air-max", "B", KindWildcard},
		{"/products/hats", "A", KindWildcard},
	}
	for _, test := range tests {
		p, ok := g.FindUrl(test.path)
		require.True(t, ok, test.path)
		assert.Equal(t, test.pageId, p.PageId, test.path)
		assert.Equal(t, test.kind, p.Kind, test.path)
	}

	_, ok := g.FindUrl("/unrelated")
	assert.False(t, ok)
}

func TestFindUrlFallback(t *testing.T) {
	records := append(productPatterns(), record("*", "F"), record("*", "G"))
	g := BuildGraph(records)

	p, ok := g.FindUrl("/unrelated")
	require.True(t, ok)
	assert.Equal(t, "F", p.PageId)
	assert.Equal(t, KindFallback, p.Kind)

	p, ok = g.FindUrl("/products/hats")
	require.True(t, ok)
	assert.Equal(t, "A", p.PageId)
}

func TestInsertionOrderDoesNotMatter(t *testing.T) {
	forward := BuildGraph([]types.PatternRecord{
		record("/products/*", "A"),
		record("/products/shoes/*", "B"),
	})
	reverse := BuildGraph([]types.PatternRecord{
		record("/products/shoes/*", "B"),
		record("/products/*", "A"),
	})

	assert.Equal(t, []string{"/products/*"}, forward.Children(""))
	assert.Equal(t, []string{"/products/shoes/*"}, forward.Children("/products/*"))
	assert.Equal(t, []string{"/products/*"}, reverse.Children(""))
	assert.Equal(t, []string{"/products/shoes/*"}, reverse.Children("/products/*"))

	for _, g := range []*Graph{forward, reverse} {
		p, ok := g.FindUrl("/products/shoes/air-max")
		require.True(t, ok)
		assert.Equal(t, "B", p.PageId)
	}
}

func TestSecondPassLinksEarlierNodes(t *testing.T) {
	g := BuildGraph([]types.PatternRecord{
		record("/a/*", "1"),
		record("/a/b/c/*", "2"),
		record("/a/b/*", "3"),
	})

	assert.Equal(t, []string{"/a/*"}, g.Children(""))
	assert.Contains(t, g.Children("/a/b/*"), "/a/b/c/*")

	p, ok := g.FindUrl("/a/b/c/d")
	require.True(t, ok)
	assert.Equal(t, "2", p.PageId)

	p, ok = g.FindUrl("/a/b/x")
	require.True(t, ok)
	assert.Equal(t, "3", p.PageId)
}

func TestMutualMatchesStayAcyclic(t *testing.T) {
	g := BuildGraph([]types.PatternRecord{
		record("/x*", "1"),
		record("/x*y", "2"),
		record("*x*", "3"),
	})

	for idx := 1; idx < len(g.nodes); idx++ {
		for _, c := range g.nodes[idx].children {
			assert.False(t, g.reaches(c, idx), "cycle through %s", g.nodes[idx].pattern.Query)
		}
	}

	p, ok := g.FindUrl("/xay")
	require.True(t, ok)
	assert.Equal(t, "2", p.PageId)
}

func TestEqualScoresPreferEarlierPattern(t *testing.T) {
	g := BuildGraph([]types.PatternRecord{
		record("/shop/*/sale", "first"),
		record("/shop/shoes/*", "second"),
	})

	p, ok := g.FindUrl("/shop/shoes/sale")
	require.True(t, ok)
	assert.Equal(t, "first", p.PageId)
}

func TestWildcardQueriesAreLiteral(t *testing.T) {
	g := BuildGraph([]types.PatternRecord{
		record("/price(1.0)/*", "P"),
	})

	_, ok := g.FindUrl("/priceX1X0X/abc")
	assert.False(t, ok)

	p, ok := g.FindUrl("/price(1.0)/abc")
	require.True(t, ok)
	assert.Equal(t, "P", p.PageId)
}

func TestDuplicateWildcardIgnored(t *testing.T) {
	g := BuildGraph([]types.PatternRecord{
		record("/blog/*", "1"),
		record("/blog/*", "2"),
	})

	p, ok := g.FindUrl("/blog/post")
	require.True(t, ok)
	assert.Equal(t, "1", p.PageId)
	assert.Equal(t, 1, g.Len())
}

func TestLandingPages(t *testing.T) {
	g := BuildGraph([]types.PatternRecord{
		landing("/summer", "1"),
		landing("/campaign/*", "2"),
		record("/about", "3"),
		landing("/summer", "4"),
	})

	pages := g.LandingPages()
	require.Len(t, pages, 2)
	assert.Equal(t, "/summer", pages[0].Query)
	assert.Equal(t, "4", pages[0].PageId)
	assert.Equal(t, "/campaign/*", pages[1].Query)

	p, ok := g.FindUrl("/campaign/*")
	require.True(t, ok)
	assert.Equal(t, KindExact, p.Kind)

	_, ok = g.FindUrl("/campaign/autumn")
	assert.False(t, ok)
}

func TestCollectionReset(t *testing.T) {
	c := NewCollection(productPatterns())
	_, ok := c.FindUrl("/products/hats")
	assert.True(t, ok)

	c.Reset([]types.PatternRecord{record("/news/*", "N")})
	_, ok = c.FindUrl("/products/hats")
	assert.False(t, ok)
	p, ok := c.FindUrl("/news/today")
	require.True(t, ok)
	assert.Equal(t, "N", p.PageId)
	assert.Len(t, c.Records(), 1)
}

func TestNilGraph(t *testing.T) {
	var g *Graph
	_, ok := g.FindUrl("/x")
	assert.False(t, ok)
	assert.Empty(t, g.LandingPages())
}
