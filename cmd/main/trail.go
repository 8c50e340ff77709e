package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"storefront/breadcrumbs/internal/breadcrumbs"
	"storefront/breadcrumbs/internal/config"
	"storefront/breadcrumbs/internal/domain"
	"storefront/breadcrumbs/internal/render"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// trailInput is either a single trail or a full product.
type trailInput struct {
	CurrentCategory string                      `json:"current_category"`
	CurrentPath     string                      `json:"current_path"`
	Breadcrumbs     []domain.CategoryBreadcrumb `json:"breadcrumbs"`
	Categories      []domain.ProductCategory    `json:"categories"`
}

var trailCmd = &cobra.Command{
	Use:   "trail <file.json|->",
	Short: "Render breadcrumb trails from a JSON file without touching any backend",
	Long: `Reads either a single trail

  {"current_category": "...", "current_path": "...", "breadcrumbs": [...]}

or a product with categories

  {"categories": [{"id": 1, "name": "...", "url_path": "...", "breadcrumbs": [...]}]}

and prints the resulting trails as json, yaml or html.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		input, err := readTrailInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		return writeTrails(cmd.OutOrStdout(), cfg.Storefront, input, outputFormat)
	},
}

func init() {
	trailCmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json, yaml or html")
}

func readTrailInput(stdin io.Reader, path string) (*trailInput, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var input trailInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &input, nil
}

func writeTrails(w io.Writer, storefront config.StorefrontConfig, input *trailInput, format string) error {
	resolver := breadcrumbs.NewSuffixResolver(storefront.BasePath, storefront.URLSuffix)

	var group breadcrumbs.Group
	if input.Categories != nil {
		group = breadcrumbs.NewGroup(input.Categories, resolver)
	} else {
		group = breadcrumbs.Group{Trails: []breadcrumbs.Trail{
			breadcrumbs.NewTrail(input.Breadcrumbs, input.CurrentCategory, input.CurrentPath, resolver),
		}}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(group.Trails)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(group.Trails)
	case "html":
		renderer, err := render.New(storefront.Classes)
		if err != nil {
			return err
		}
		return renderer.RenderGroup(w, group, "")
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
