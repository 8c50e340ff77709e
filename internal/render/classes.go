package render

import (
	"maps"
	"strings"
)

var defaultClasses = map[string]string{
	"root":                   "breadcrumbs-root",
	"link":                   "breadcrumbs-link",
	"divider":                "breadcrumbs-divider",
	"current_category":       "breadcrumbs-currentCategory",
	"breadcrumb_root":        "productBreadcrumbs-breadcrumbRoot",
	"breadcrumb_list_button": "productBreadcrumbs-breadcrumbListButton",
	"dropdown":               "productBreadcrumbs-dropdown",
	"dropdown_open":          "productBreadcrumbs-dropdown_open",
}

// DefaultClasses returns a copy of the built-in class map.
func DefaultClasses() map[string]string {
	return maps.Clone(defaultClasses)
}

// MergeClasses returns defaults with every non-empty override applied on
// top. Override keys are lowercased, as config keys arrive that way. Neither
// argument is modified.
func MergeClasses(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	maps.Copy(merged, defaults)
	for key, class := range overrides {
		if class == "" {
			continue
		}
		merged[strings.ToLower(key)] = class
	}
	return merged
}
