package client

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/breadcrumbs/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// pageParser reads category breadcrumbs off legacy storefront product
// pages. Every nav.breadcrumbs block is one category: its last node is the
// category itself, the nodes before it are its ancestors.
type pageParser struct {
	basePath  string
	urlSuffix string
}

func newPageParser(basePath, urlSuffix string) *pageParser {
	return &pageParser{
		basePath:  strings.TrimRight(basePath, "/"),
		urlSuffix: urlSuffix,
	}
}

func (p *pageParser) ParseProductPage(html string) (*domain.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	product := &domain.Product{
		Name:       strings.TrimSpace(doc.Find("h1").First().Text()),
		Categories: make([]domain.ProductCategory, 0),
	}

	doc.Find("nav.breadcrumbs").Each(func(i int, nav *goquery.Selection) {
		category, ok := p.extractCategory(nav)
		if !ok {
			log.Warnf("Skipping breadcrumb block %d without category ids", i)
			return
		}
		product.Categories = append(product.Categories, category)
	})

	log.Debugf("Parsed legacy page %q with %d categories", product.Name, len(product.Categories))
	return product, nil
}

func (p *pageParser) extractCategory(nav *goquery.Selection) (domain.ProductCategory, bool) {
	nodes := nav.Find("[data-category-id]")
	if nodes.Length() == 0 {
		return domain.ProductCategory{}, false
	}

	var crumbs []domain.CategoryBreadcrumb
	nodes.Each(func(i int, node *goquery.Selection) {
		if i == nodes.Length()-1 {
			return
		}
		id, ok := attrInt(node, "data-category-id")
		if !ok {
			return
		}
		level, ok := attrInt(node, "data-level")
		if !ok {
			// Root children start at level 2
			level = i + 2
		}
		crumbs = append(crumbs, domain.CategoryBreadcrumb{
			CategoryID: id,
			Name:       strings.TrimSpace(node.Text()),
			Level:      level,
			URLPath:    p.pathFromHref(node),
		})
	})

	last := nodes.Last()
	id, ok := attrInt(last, "data-category-id")
	if !ok {
		return domain.ProductCategory{}, false
	}

	return domain.ProductCategory{
		ID:          id,
		Name:        strings.TrimSpace(last.Text()),
		URLPath:     p.pathFromHref(last),
		Breadcrumbs: crumbs,
	}, true
}

// pathFromHref reverses URL resolution: "/women/tops.html" becomes
// "women/tops". Dead links and non-anchors yield an empty path.
func (p *pageParser) pathFromHref(node *goquery.Selection) string {
	href, exists := node.Attr("href")
	if !exists || href == "" || href == "#" {
		return ""
	}

	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if p.basePath != "" {
		href = strings.TrimPrefix(href, p.basePath)
	}
	href = strings.TrimSuffix(href, p.urlSuffix)
	return strings.Trim(href, "/")
}

func attrInt(node *goquery.Selection, name string) (int, bool) {
	raw, exists := node.Attr(name)
	if !exists {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return v, true
}
