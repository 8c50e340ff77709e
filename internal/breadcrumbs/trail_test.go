package breadcrumbs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/breadcrumbs/internal/domain"
)

var testResolver = NewSuffixResolver("", DefaultURLSuffix)

func TestNewTrail_NilEntries(t *testing.T) {
	trail := NewTrail(nil, "Shoes", "", testResolver)

	want := []Node{
		{Text: "Home", Href: "/"},
		{Text: "Shoes"},
	}
	if diff := cmp.Diff(want, trail.Nodes()); diff != "" {
		t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, trail.Links)
	assert.NotNil(t, trail.Links)
	assert.False(t, trail.Current.IsLink())
}

func TestNewTrail_SortsByLevel(t *testing.T) {
	entries := []domain.CategoryBreadcrumb{
		{CategoryID: 4, Name: "Dresses", Level: 4, URLPath: "women/tops/dresses"},
		{CategoryID: 2, Name: "Women", Level: 2, URLPath: "women"},
		{CategoryID: 3, Name: "Tops", Level: 3, URLPath: "women/tops"},
	}

	trail := NewTrail(entries, "Maxi", "women/tops/dresses/maxi", testResolver)

	want := []domain.Link{
		{Text: "Women", Href: "/women.html"},
		{Text: "Tops", Href: "/women/tops.html"},
		{Text: "Dresses", Href: "/women/tops/dresses.html"},
	}
	if diff := cmp.Diff(want, trail.Links); diff != "" {
		t.Errorf("Links mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, Node{Text: "Maxi", Href: "/women/tops/dresses/maxi.html"}, trail.Current)
	assert.True(t, trail.Current.IsLink())
}

func TestNewTrail_DoesNotReorderInput(t *testing.T) {
	entries := []domain.CategoryBreadcrumb{
		{Name: "B", Level: 3},
		{Name: "A", Level: 2},
	}

	NewTrail(entries, "C", "", testResolver)

	assert.Equal(t, "B", entries[0].Name)
	assert.Equal(t, "A", entries[1].Name)
}

func TestNewTrail_EqualLevelsKeepInputOrder(t *testing.T) {
	entries := []domain.CategoryBreadcrumb{
		{Name: "Sale", Level: 3},
		{Name: "Root", Level: 2},
		{Name: "New", Level: 3},
		{Name: "Gear", Level: 3},
	}

	trail := NewTrail(entries, "Bags", "", testResolver)

	var names []string
	for _, link := range trail.Links {
		names = append(names, link.Text)
	}
	assert.Equal(t, []string{"Root", "Sale", "New", "Gear"}, names)
}

func TestNewTrail_MissingPathIsDeadLink(t *testing.T) {
	entries := []domain.CategoryBreadcrumb{
		{Name: "Promotions", Level: 2},
		{Name: "Summer", Level: 3, URLPath: "promotions/summer"},
	}

	trail := NewTrail(entries, "Hats", "", testResolver)

	require.Len(t, trail.Links, 2)
	assert.Equal(t, DeadLink, trail.Links[0].Href)
	assert.Equal(t, "/promotions/summer.html", trail.Links[1].Href)
}

func TestTrail_NodesStartHomeEndCurrent(t *testing.T) {
	cases := map[string][]domain.CategoryBreadcrumb{
		"nil":   nil,
		"empty": {},
		"one":   {{Name: "Men", Level: 2, URLPath: "men"}},
		"many": {
			{Name: "Men", Level: 2, URLPath: "men"},
			{Name: "Bottoms", Level: 3},
			{Name: "Shorts", Level: 4, URLPath: "men/bottoms/shorts"},
		},
	}

	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			nodes := NewTrail(entries, "Current", "current", testResolver).Nodes()

			require.Len(t, nodes, len(entries)+2)
			assert.Equal(t, Node{Text: HomeText, Href: HomeHref}, nodes[0])
			assert.Equal(t, Node{Text: "Current", Href: "/current.html"}, nodes[len(nodes)-1])
		})
	}
}

func TestSuffixResolver(t *testing.T) {
	tests := []struct {
		name     string
		resolver SuffixResolver
		fragment string
		want     string
	}{
		{"default suffix", NewSuffixResolver("", ".html"), "gear/bags", "/gear/bags.html"},
		{"leading slash trimmed", NewSuffixResolver("", ".html"), "/gear", "/gear.html"},
		{"base path", NewSuffixResolver("/default/", ".html"), "gear", "/default/gear.html"},
		{"no suffix", NewSuffixResolver("", ""), "gear", "/gear"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resolver.Resolve(tt.fragment))
		})
	}
}

func TestHref_EmptyFragment(t *testing.T) {
	assert.Equal(t, "#", Href(testResolver, ""))
	assert.Equal(t, "/a.html", Href(testResolver, "a"))
}
