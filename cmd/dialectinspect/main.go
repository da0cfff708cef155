// Command dialectinspect binds a dialect adapter to a live database and reports what it found.
//
// Usage:
//
//	dialectinspect inspect --driver pgx --dsn postgres://localhost/app --schema reporting
//	dialectinspect products --catalog products.toml
//	dialectinspect split --product mysql migrations/V1__init.sql
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/sqldialect-go/dialect/products"
	"github.com/AntonStoeckl/sqldialect-go/dialect/sqlengine"
)

const (
	flagDriver   = "driver"
	flagDSN      = "dsn"
	flagCatalog  = "catalog"
	flagSchema   = "schema"
	flagProduct  = "product"
	flagLogLevel = "log-level"
)

type rootFlags struct {
	catalog  string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "dialectinspect",
		Short:         "Inspect database dialects",
		Long:          "Detects database products, reports their traits and splits SQL scripts the way a product does.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.catalog, flagCatalog, "", "TOML or YAML product catalog to register")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, flagLogLevel, "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInspectCmd(flags))
	rootCmd.AddCommand(newProductsCmd(flags))
	rootCmd.AddCommand(newSplitCmd(flags))

	return rootCmd
}

func (f *rootFlags) registry() (*sqlengine.Registry, error) {
	if f.catalog == "" {
		return sqlengine.DefaultRegistry(), nil
	}

	profiles, err := products.LoadCatalog(f.catalog)
	if err != nil {
		return nil, err
	}

	return sqlengine.NewRegistry(sqlengine.WithProfiles(profiles...))
}

func (f *rootFlags) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flagLogLevel, f.logLevel, err)
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})

	return slog.New(handler).With("run_id", uuid.NewString()), nil
}
