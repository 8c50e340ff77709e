package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"storefront/breadcrumbs/internal/breadcrumbs"
	"storefront/breadcrumbs/internal/config"
)

var storefront = config.StorefrontConfig{URLSuffix: ".html"}

const productInput = `{"categories":[
	{"id":1,"name":"Gear","url_path":"gear"},
	{"id":2,"name":"Bags","url_path":"gear/bags","breadcrumbs":[{"category_id":1,"category_name":"Gear","category_level":2,"category_url_path":"gear"}]},
	{"id":3,"name":"Sale","url_path":"sale"}
]}`

func TestWriteTrails_SingleTrailJSON(t *testing.T) {
	input, err := readTrailInput(strings.NewReader(`{"current_category":"Bags","breadcrumbs":[{"category_name":"Gear","category_level":2}]}`), "-")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeTrails(&buf, storefront, input, "json"))

	var trails []breadcrumbs.Trail
	require.NoError(t, json.Unmarshal(buf.Bytes(), &trails))
	require.Len(t, trails, 1)
	assert.Equal(t, "#", trails[0].Links[0].Href)
	assert.False(t, trails[0].Current.IsLink())
}

func TestWriteTrails_ProductYAML(t *testing.T) {
	input, err := readTrailInput(strings.NewReader(productInput), "-")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeTrails(&buf, storefront, input, "yaml"))

	var trails []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &trails))
	assert.Len(t, trails, 2)
}

func TestWriteTrails_ProductHTML(t *testing.T) {
	input, err := readTrailInput(strings.NewReader(productInput), "-")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeTrails(&buf, storefront, input, "html"))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("div.breadcrumbs-root").Length())
	assert.Equal(t, 1, doc.Find("button").Length())
}

func TestWriteTrails_ConfiguredClasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  graphql_url: https://shop.example.com/graphql
storefront:
  classes:
    current_category: my-current
    breadcrumb_list_button: my-button
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	single, err := readTrailInput(strings.NewReader(`{"current_category":"Bags"}`), "-")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, writeTrails(&buf, cfg.Storefront, single, "html"))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Bags", doc.Find("span.my-current").Text())

	product, err := readTrailInput(strings.NewReader(productInput), "-")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, writeTrails(&buf, cfg.Storefront, product, "html"))
	doc, err = goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("button.my-button").Length())
}

func TestWriteTrails_UnknownFormat(t *testing.T) {
	err := writeTrails(&bytes.Buffer{}, storefront, &trailInput{}, "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
