package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

type productListing struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Aliases      []string             `json:"aliases,omitempty"`
	Detectable   bool                 `json:"detectable"`
	Capabilities dialect.Capabilities `json:"capabilities"`
}

func newProductsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the registered products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := flags.registry()
			if err != nil {
				return err
			}

			listings := make([]productListing, 0, len(registry.Products()))
			for _, id := range registry.Products() {
				reg, ok := registry.Lookup(id)
				if !ok {
					continue
				}

				profile, err := reg.New(dialect.ProductInfo{ID: reg.ID, Name: reg.Name})
				if err != nil {
					return err
				}

				listings = append(listings, productListing{
					ID:           reg.ID,
					Name:         reg.Name,
					Aliases:      reg.Aliases,
					Detectable:   reg.Detection.Query != "",
					Capabilities: withMinimumLabel(profile.Capabilities),
				})
			}

			return writeJSON(cmd.OutOrStdout(), listings)
		},
	}
}

func withMinimumLabel(c dialect.Capabilities) dialect.Capabilities {
	if c.MinVersionLabel == "" && !c.MinVersion.IsZero() {
		c.MinVersionLabel = c.MinVersion.String()
	}

	return c
}
