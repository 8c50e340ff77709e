package breadcrumbs

import (
	"cmp"
	"slices"

	"storefront/breadcrumbs/internal/domain"
)

// Node is the terminal element of a trail. It is a link only when Href is
// set.
type Node struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

func (n Node) IsLink() bool {
	return n.Href != ""
}

type Trail struct {
	Home    domain.Link   `json:"home"`
	Links   []domain.Link `json:"links"`
	Current Node          `json:"current"`
}

// NewTrail builds the trail for currentCategory. entries may be nil and are
// not modified; the trail lists them ordered by level, keeping input order
// for equal levels. An empty currentPath leaves the current category as
// plain text.
func NewTrail(entries []domain.CategoryBreadcrumb, currentCategory, currentPath string, r Resolver) Trail {
	sorted := SortEntries(entries)

	links := make([]domain.Link, 0, len(sorted))
	for _, entry := range sorted {
		links = append(links, domain.Link{
			Text: entry.Name,
			Href: Href(r, entry.URLPath),
		})
	}

	current := Node{Text: currentCategory}
	if currentPath != "" {
		current.Href = r.Resolve(currentPath)
	}

	return Trail{
		Home:    domain.Link{Text: HomeText, Href: HomeHref},
		Links:   links,
		Current: current,
	}
}

// SortEntries returns a copy of entries sorted ascending by level.
func SortEntries(entries []domain.CategoryBreadcrumb) []domain.CategoryBreadcrumb {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b domain.CategoryBreadcrumb) int {
		return cmp.Compare(a.Level, b.Level)
	})
	return sorted
}

// Nodes flattens the trail into display order: Home, the ancestors, then
// the current category.
func (t Trail) Nodes() []Node {
	nodes := make([]Node, 0, len(t.Links)+2)
	nodes = append(nodes, Node{Text: t.Home.Text, Href: t.Home.Href})
	for _, link := range t.Links {
		nodes = append(nodes, Node{Text: link.Text, Href: link.Href})
	}
	return append(nodes, t.Current)
}
