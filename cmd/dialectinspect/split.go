package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

var errProductRequired = errors.New("--product is required")

type splitStatement struct {
	Line      int    `json:"line"`
	Delimiter string `json:"delimiter"`
	SQL       string `json:"sql"`
}

func newSplitCmd(flags *rootFlags) *cobra.Command {
	var product string

	cmd := &cobra.Command{
		Use:   "split [script]",
		Short: "Split a SQL script into statements the way a product does",
		Long:  "Reads the script from the given file, or from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if product == "" {
				return errProductRequired
			}

			registry, err := flags.registry()
			if err != nil {
				return err
			}

			reg, ok := registry.Lookup(product)
			if !ok {
				return &dialect.NoMatchingAdapterError{Product: product}
			}

			profile, err := reg.New(dialect.ProductInfo{ID: reg.ID, Name: reg.Name})
			if err != nil {
				return err
			}

			var script io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				script = f
			}

			statements, err := dialect.NewStatementBuilder(profile.Statements).Parse(script)
			if err != nil {
				return fmt.Errorf("splitting as %s: %w", reg.Name, err)
			}

			out := make([]splitStatement, 0, len(statements))
			for _, s := range statements {
				out = append(out, splitStatement{Line: s.Line, Delimiter: s.Delimiter, SQL: s.SQL})
			}

			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&product, flagProduct, "", "product whose splitting rules apply")

	return cmd
}
