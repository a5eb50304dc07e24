package facet

import (
	"net/url"
	"strings"
	"testing"

	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFacets() []types.FacetConfig {
	return []types.FacetConfig{
		{Id: "category", Behavior: types.BehaviorHierarchical, TitleToken: "in $(0)"},
		{Id: "color", Behavior: types.BehaviorSingle, TitleToken: "$(0) color"},
		{Id: "size", Behavior: types.BehaviorMulti},
		{Id: "onlinecustomerprice", Url: "price", Behavior: types.BehaviorRange},
	}
}

func testTree() *CategoryTree {
	return NewCategoryTree([]types.CategoryNode{
		{Id: "1", UrlComponent: "shoes", Categories: []types.CategoryNode{
			{Id: "2", UrlComponent: "running"},
			{Id: "3", UrlComponent: "hiking"},
		}},
		{Id: "4", UrlComponent: "hats"},
	})
}

func testConfiguration(t *testing.T, opts ...Option) *Configuration {
	t.Helper()
	cfg, err := NewConfiguration(testFacets(), opts...)
	require.NoError(t, err)
	return cfg
}

func facetMap(tr *Translator) map[string]Value {
	ret := map[string]Value{}
	for _, s := range tr.Facets() {
		ret[s.Id] = s.Value
	}
	return ret
}

type suffixProcessor string

func (s suffixProcessor) EnsureTrackedParameters(u string, _ types.Delimiters) string {
	return u + string(s)
}

func TestParseUrl(t *testing.T) {
	cfg := testConfiguration(t)
	tr := cfg.Parse("/color/red/size/L,M/price/10to20?order=price%3Adesc&page=3&show=48&keywords=blue+shoe")

	assert.Equal(t, map[string]Value{
		"color":               SingleValue("red"),
		"size":                MultiValue{"L", "M"},
		"onlinecustomerprice": RangeValue{From: "10", To: "20"},
	}, facetMap(tr))
	assert.Equal(t, Options{Show: 48, Order: "price:desc", Page: 3, Display: "list", Keywords: "blue shoe"}, tr.Options())

	price, ok := tr.Facet("onlinecustomerprice")
	require.True(t, ok)
	assert.Equal(t, "price", price.Url)
}

func TestParseUrlDegradesToDefaults(t *testing.T) {
	cfg := testConfiguration(t)
	defaults := Options{Show: 24, Order: "relevance:asc", Page: 1, Display: "list"}

	for _, u := range []string{"", "/", "/search", "search/", "/??&&==", "/search?page=abc&show=-3", "/search?page=0", "/color"} {
		tr := cfg.Parse(u)
		assert.Empty(t, tr.Facets(), u)
		assert.Equal(t, defaults, tr.Options(), u)
	}
}

func TestParseUnknownFacetDegradesToSingle(t *testing.T) {
	tr := testConfiguration(t).Parse("/material/wool")
	s, ok := tr.Facet("material")
	require.True(t, ok)
	assert.Equal(t, SingleValue("wool"), s.Value)
	assert.Equal(t, types.BehaviorSingle, s.Config.Behavior)
	assert.Equal(t, 5, s.Config.Max)
}

func TestParseEmptyValueKeepsPairs(t *testing.T) {
	cfg := testConfiguration(t)

	tr := cfg.Parse("/size//color/red")
	assert.Equal(t, map[string]Value{"color": SingleValue("red")}, facetMap(tr))

	tr = cfg.Parse("/color/red/size//price/10to20?page=&show=48")
	assert.Equal(t, map[string]Value{
		"color":               SingleValue("red"),
		"onlinecustomerprice": RangeValue{From: "10", To: "20"},
	}, facetMap(tr))
	assert.Equal(t, 1, tr.Options().Page)
	assert.Equal(t, 48, tr.Options().Show)
}

func TestParseRangeWithoutDelimiter(t *testing.T) {
	tr := testConfiguration(t).Parse("/price/100")
	v, ok := tr.FacetValue("onlinecustomerprice")
	require.True(t, ok)
	assert.Equal(t, RangeValue{From: "0", To: "100"}, v)
	assert.Equal(t, "/price/0to100", tr.Url())
}

func TestParseCategoryPrefix(t *testing.T) {
	cfg := testConfiguration(t, WithCategories(testTree()))
	tr := cfg.Parse("/shoes/running/color/red")

	assert.Equal(t, map[string]Value{
		"category": HierarchicalValue{"shoes", "running"},
		"color":    SingleValue("red"),
	}, facetMap(tr))
	assert.Equal(t, "/shoes/running/color/red", tr.Url())
	assert.Equal(t, "/shoes/running", tr.ApiParams()["category"])
}

func TestParseCategoryTokenIsSkipped(t *testing.T) {
	cfg := testConfiguration(t, WithCategories(testTree()))
	tr := cfg.Parse("/category/shoes/color/red")
	assert.Equal(t, map[string]Value{"color": SingleValue("red")}, facetMap(tr))
}

func TestParseWithoutCategoryProvider(t *testing.T) {
	tr := testConfiguration(t).Parse("/shoes/running")
	assert.Equal(t, map[string]Value{"shoes": SingleValue("running")}, facetMap(tr))
}

func TestUrlSortsFacetsByUrlToken(t *testing.T) {
	tr := testConfiguration(t).Parse("/size/M/color/red/price/1to2")
	assert.Equal(t, "/color/red/price/1to2/size/M", tr.Url())
}

func TestUrlOmitsDefaultOptions(t *testing.T) {
	cfg := testConfiguration(t)
	assert.Equal(t, "/search", cfg.Empty().Url())
	assert.Equal(t, "/search", cfg.Parse("/search?page=1&show=24&order=relevance%3Aasc&display=list").Url())
	assert.Equal(t, "/search?keywords=red+hat", cfg.Parse("/search?keywords=red%20hat").Url())
	assert.Equal(t,
		"/color/red/price/10to20/size/L,M?order=price%3Adesc&page=3&show=48&keywords=blue+shoe",
		cfg.Parse("/color/red/size/M,L/price/10to20?order=price%3Adesc&page=3&show=48&keywords=blue+shoe").Url())
}

func TestUrlRoundTrip(t *testing.T) {
	cfg := testConfiguration(t, WithCategories(testTree()))
	urls := []string{
		"/shoes/hiking/size/41,42?page=2",
		"/hats",
		"/color/dark%20blue/price/5to50",
		"/search?keywords=%C3%A5sa&display=grid",
		"/size/S?show=12&order=name%3Aasc",
		"/material/wool/color/red",
	}
	for _, u := range urls {
		first := cfg.Parse(u)
		second := cfg.Parse(first.Url())
		assert.Equal(t, facetMap(first), facetMap(second), u)
		assert.Equal(t, first.Options(), second.Options(), u)
		assert.Equal(t, first.Url(), second.Url(), u)
	}
}

func TestUrlCustomDelimiters(t *testing.T) {
	d := types.Delimiters{
		BetweenFacetNameAndValue:     "_",
		BetweenDifferentFacets:       "/",
		BetweenDifferentFacetsValues: "+",
		BetweenRangeFacetsValues:     "-",
		BetweenFacetsAndOptions:      "~",
		BetweenOptionNameAndValue:    ":",
		BetweenDifferentOptions:      ";",
	}
	cfg := testConfiguration(t, WithDelimiters(d), WithFallbackUrl("all"))
	tr := cfg.Parse("/size_M+L/price_1-9~page:2")
	assert.Equal(t, MultiValue{"M", "L"}, facetMap(tr)["size"])
	assert.Equal(t, RangeValue{From: "1", To: "9"}, facetMap(tr)["onlinecustomerprice"])
	assert.Equal(t, 2, tr.Options().Page)
	assert.Equal(t, "/price_1-9/size_L+M~page:2", tr.Url())
	assert.Equal(t, "/all", tr.ResetAll().Url())
}

func TestSeoLimits(t *testing.T) {
	cfg := testConfiguration(t, WithSeoContext(types.SeoLimits{
		NumberOfFacetsGroups: 1,
		NumberOfFacetsValues: 2,
		Options:              []string{OptionPage},
	}))

	assert.Equal(t, NoIndexUrl, cfg.Parse("/color/red/size/M").Url())
	assert.Equal(t, NoIndexUrl, cfg.Parse("/size/L,M,S").Url())
	assert.Equal(t, "/size/L,M", cfg.Parse("/size/L,M").Url())
	assert.Equal(t, "/color/red?page=2", cfg.Parse("/color/red?page=2").Url())
	assert.Equal(t, NoIndexUrl, cfg.Parse("/color/red?order=name").Url())

	relaxed := cfg.WithOptions(func(c *Configuration) { c.SeoContext = false })
	assert.Equal(t, "/color/red/size/M", relaxed.Parse("/color/red/size/M").Url())
}

func TestSeoLimitsOnlyInSeoContext(t *testing.T) {
	cfg := testConfiguration(t, WithSeoLimits(types.SeoLimits{NumberOfFacetsGroups: 1}))
	tr := cfg.Parse("/color/red/size/M")
	assert.Equal(t, "/color/red/size/M", tr.Url())

	crawler := cfg.InSeoContext()
	assert.Equal(t, "#", crawler.Parse("/color/red/size/M").Url())
	assert.Same(t, crawler, crawler.InSeoContext())
	assert.False(t, cfg.SeoContext)
}

func TestUrlPostProcessor(t *testing.T) {
	cfg := testConfiguration(t, WithPostProcessor(suffixProcessor("?utm_source=mail")))
	tr := cfg.Parse("/color/red")
	assert.Equal(t, "/color/red?utm_source=mail", tr.Url())
	assert.Equal(t, "/color/red&ref=x", tr.WithPostProcessor(suffixProcessor("&ref=x")).Url())
	assert.Equal(t, "/search&ref=x", tr.WithPostProcessor(suffixProcessor("&ref=x")).ResetAll().Url())
}

type delimiterRecorder struct {
	seen types.Delimiters
}

func (r *delimiterRecorder) EnsureTrackedParameters(u string, d types.Delimiters) string {
	r.seen = d
	return u
}

func TestUrlPostProcessorGetsDelimiters(t *testing.T) {
	d := types.DefaultDelimiters()
	d.BetweenFacetsAndOptions = "~"
	rec := &delimiterRecorder{}
	cfg := testConfiguration(t, WithDelimiters(d), WithPostProcessor(rec))

	assert.Equal(t, "/color/red~page=2", cfg.Parse("/color/red~page=2").Url())
	assert.Equal(t, d, rec.seen)
}

func TestApiParams(t *testing.T) {
	tr := testConfiguration(t).Parse("/color/red/size/M/price/10to20?page=3&show=10&keywords=hat")
	assert.Equal(t, map[string]string{
		"color":                    "red",
		"size":                     "M",
		"onlinecustomerprice.from": "10",
		"onlinecustomerprice.to":   "20",
		"sort":                     "relevance:asc",
		"limit":                    "10",
		"offset":                   "20",
		"q":                        "hat",
	}, tr.ApiParams())
}

func TestApiParamsMultiValueJoin(t *testing.T) {
	cfg := testConfiguration(t)
	// a single value is written without any trailing separator
	assert.Equal(t, "red", cfg.Empty().CloneForFacetId("size", "red").ApiParams()["size"])
	assert.Equal(t, "L,M,S", cfg.Parse("/size/S,M,L").ApiParams()["size"])
	assert.False(t, strings.HasSuffix(cfg.Parse("/size/S").ApiValues().Get("size"), ","))
}

func TestApiParamsDefaults(t *testing.T) {
	params := testConfiguration(t).Empty().ApiParams()
	assert.Equal(t, "0", params["offset"])
	assert.Equal(t, "24", params["limit"])
	assert.Equal(t, "relevance:asc", params["sort"])
	assert.Equal(t, "", params["q"])
}

func TestNotConfigured(t *testing.T) {
	assert.PanicsWithValue(t, ErrNotConfigured, func() {
		var tr Translator
		_ = tr.Url()
	})
	assert.PanicsWithValue(t, ErrNotConfigured, func() {
		var cfg *Configuration
		cfg.Parse("/color/red")
	})
}

func TestNewConfigurationErrors(t *testing.T) {
	_, err := NewConfiguration(nil, WithDelimiters(types.Delimiters{}))
	assert.ErrorIs(t, err, types.ErrEmptyDelimiter)

	_, err = NewConfiguration([]types.FacetConfig{{Id: "x", Behavior: "weird"}})
	assert.Error(t, err)

	_, err = NewConfiguration([]types.FacetConfig{{Id: "x"}, {Id: "x"}})
	assert.Error(t, err)

	_, err = NewConfiguration([]types.FacetConfig{{Name: "no id"}})
	assert.Error(t, err)

	cfg, err := NewConfiguration([]types.FacetConfig{{Id: "x"}})
	require.NoError(t, err)
	fc, ok := cfg.FacetConfig("x")
	require.True(t, ok)
	assert.Equal(t, types.BehaviorSingle, fc.Behavior)
}

func TestTitle(t *testing.T) {
	cfg := testConfiguration(t, WithCategories(testTree()))
	tr := cfg.Parse("/hats/color/red/size/M")
	assert.Equal(t, "in hats, red color, M", tr.Title())
}

func TestParseOptionsOptionNames(t *testing.T) {
	cfg := testConfiguration(t)
	tr := cfg.ParseOptions(url.Values{
		"show":    {"12"},
		"page":    {"2"},
		"color":   {"red"},
		"size":    {"M", "L"},
		"price":   {"5to9"},
		"unknown": {"x"},
	})
	assert.Equal(t, map[string]Value{
		"color":               SingleValue("red"),
		"size":                MultiValue{"M", "L"},
		"onlinecustomerprice": RangeValue{From: "5", To: "9"},
	}, facetMap(tr))
	assert.Equal(t, 12, tr.Options().Show)
	assert.Equal(t, 2, tr.Options().Page)
}

func TestParseOptionsInvertsApiParams(t *testing.T) {
	cfg := testConfiguration(t, WithCategories(testTree()))
	for _, u := range []string{
		"/shoes/running/color/red/size/L,M/price/10to20?page=3&show=10&keywords=hat&order=name%3Aasc",
		"/search",
		"/size/XL?page=7",
	} {
		tr := cfg.Parse(u)
		back := cfg.ParseOptions(tr.ApiValues())
		assert.Equal(t, tr.Url(), back.Url(), u)
		assert.Equal(t, tr.Options().Page, back.Options().Page, u)
	}
}

func TestParseOptionsBadNumbers(t *testing.T) {
	tr := testConfiguration(t).ParseOptions(url.Values{"limit": {"many"}, "offset": {"-1"}})
	assert.Equal(t, 24, tr.Options().Show)
	assert.Equal(t, 1, tr.Options().Page)
}

func TestFromState(t *testing.T) {
	cfg := testConfiguration(t)
	facets := []Selection{{Id: "color", Url: "color", Value: SingleValue("red")}}
	tr := cfg.FromState(facets, Options{Show: 24, Order: "relevance:asc", Page: 4, Display: "list"})
	facets[0].Value = SingleValue("blue")
	assert.Equal(t, "/color/red?page=4", tr.Url())
}
