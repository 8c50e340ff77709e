package domain

// CategoryBreadcrumb is one ancestor step of a category as delivered by the
// storefront catalog.
type CategoryBreadcrumb struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"category_name"`
	Level      int    `json:"category_level"`    // Depth in the category tree, root children are level 2
	URLPath    string `json:"category_url_path"` // Empty when the category has no landing page
}

// ProductCategory is a category a product is assigned to, together with the
// ancestor chain leading to it.
type ProductCategory struct {
	ID          int                  `json:"id"`
	Name        string               `json:"name"`
	URLPath     string               `json:"url_path"`
	Breadcrumbs []CategoryBreadcrumb `json:"breadcrumbs"` // May be nil for top-level categories
}

type Product struct {
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	URLKey     string            `json:"url_key,omitempty"`
	Categories []ProductCategory `json:"categories"`
}
