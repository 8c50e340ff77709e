package breadcrumbs

import "storefront/breadcrumbs/internal/domain"

// Group holds the trails shown for one product.
type Group struct {
	Trails     []Trail    `json:"trails"`
	Disclosure Disclosure `json:"disclosure"`
}

// Collapsible reports whether the trails are wrapped in a disclosure.
func (g Group) Collapsible() bool {
	return len(g.Trails) > 1
}

// NewGroup builds one trail per child-most category of the product.
func NewGroup(categories []domain.ProductCategory, r Resolver) Group {
	leaves := LeafCategories(categories)

	trails := make([]Trail, 0, len(leaves))
	for _, category := range leaves {
		trails = append(trails, NewTrail(category.Breadcrumbs, category.Name, category.URLPath, r))
	}

	return Group{Trails: trails}
}

// AncestorIDs collects every category id that appears as a breadcrumb of
// any of the given categories.
func AncestorIDs(categories []domain.ProductCategory) map[int]struct{} {
	ids := make(map[int]struct{})
	for _, category := range categories {
		for _, crumb := range category.Breadcrumbs {
			ids[crumb.CategoryID] = struct{}{}
		}
	}
	return ids
}

// LeafCategories drops the categories that are already an ancestor of
// another category, preserving input order.
func LeafCategories(categories []domain.ProductCategory) []domain.ProductCategory {
	ancestors := AncestorIDs(categories)

	leaves := make([]domain.ProductCategory, 0, len(categories))
	for _, category := range categories {
		if _, ok := ancestors[category.ID]; ok {
			continue
		}
		leaves = append(leaves, category)
	}
	return leaves
}
