// Package breadcrumbs derives navigational breadcrumb trails for catalog
// categories and groups them per product.
//
// A trail always starts with the Home link and ends with the current
// category. A product assigned to several categories gets one trail per
// child-most category; ancestors already present in another category's
// chain are skipped.
package breadcrumbs
