package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/treedecor/internal/catalog"
	"github.com/ivlev/treedecor/internal/config"
)

func catalogCmd() *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the ornaments available for decorating",
		Long: `Prints the ornament catalog: the built-in set, or the YAML catalog named
in the config. With --write the catalog is saved as YAML to start a custom one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			cat, err := openCatalog(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, it := range cat.Items() {
				fmt.Fprintf(out, "%-12s %-14s %s\n", it.ID, it.Label, describe(it.Visual))
			}

			if writePath != "" {
				if err := catalog.WriteFile(cat, writePath); err != nil {
					return fmt.Errorf("write catalog: %w", err)
				}
				fmt.Fprintf(out, "[+++] Catalog written to %s\n", writePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&writePath, "write", "w", "", "save the catalog as YAML to this path")
	return cmd
}

func openCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.ReadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cfg.CatalogPath, err)
	}
	return cat, nil
}

func describe(v catalog.Visual) string {
	switch v := v.(type) {
	case catalog.Glyph:
		return v.Text
	case catalog.Image:
		return "image " + v.Ref
	}
	return "?"
}
