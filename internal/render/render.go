// Package render writes breadcrumb trails and product breadcrumb groups as
// HTML fragments.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"storefront/breadcrumbs/internal/breadcrumbs"
)

const DisclosureLabel = "Categories related to this product"

//go:embed templates/*.tmpl
var templateFS embed.FS

type Renderer struct {
	tmpl    *template.Template
	classes map[string]string
}

type trailView struct {
	Trail   breadcrumbs.Trail
	Classes map[string]string
}

type groupView struct {
	Trails      []trailView
	Collapsible bool
	Disclosure  breadcrumbs.Disclosure
	Toggle      breadcrumbs.Disclosure
	Action      string
	Label       string
	Classes     map[string]string
}

// New parses the embedded templates. classes overrides entries of the
// default class map.
func New(classes map[string]string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		tmpl:    tmpl,
		classes: MergeClasses(defaultClasses, classes),
	}, nil
}

// Classes returns the merged class map in use.
func (r *Renderer) Classes() map[string]string {
	return MergeClasses(r.classes, nil)
}

func (r *Renderer) RenderTrail(w io.Writer, trail breadcrumbs.Trail) error {
	if err := r.tmpl.ExecuteTemplate(w, "trail", r.trailView(trail)); err != nil {
		return fmt.Errorf("failed to render trail: %w", err)
	}
	return nil
}

// RenderGroup writes the trails of group. A collapsible group is wrapped in
// a disclosure whose toggle submits to action.
func (r *Renderer) RenderGroup(w io.Writer, group breadcrumbs.Group, action string) error {
	view := groupView{
		Trails:      make([]trailView, 0, len(group.Trails)),
		Collapsible: group.Collapsible(),
		Disclosure:  group.Disclosure,
		Toggle:      group.Disclosure.Toggled(),
		Action:      action,
		Label:       DisclosureLabel,
		Classes:     r.classes,
	}
	for _, trail := range group.Trails {
		view.Trails = append(view.Trails, r.trailView(trail))
	}

	if err := r.tmpl.ExecuteTemplate(w, "group", view); err != nil {
		return fmt.Errorf("failed to render breadcrumb group: %w", err)
	}
	return nil
}

func (r *Renderer) trailView(trail breadcrumbs.Trail) trailView {
	return trailView{Trail: trail, Classes: r.classes}
}
