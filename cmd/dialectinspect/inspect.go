package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
	"github.com/AntonStoeckl/sqldialect-go/dialect/sqlengine"
)

var errDSNRequired = errors.New("--dsn is required")

type inspection struct {
	AdapterID     string               `json:"adapterId"`
	Product       string               `json:"product"`
	Version       string               `json:"version"`
	Banner        string               `json:"banner,omitempty"`
	Capabilities  dialect.Capabilities `json:"capabilities"`
	CurrentUser   string               `json:"currentUser"`
	CurrentSchema string               `json:"currentSchema"`
	Schema        *schemaInspection    `json:"schema,omitempty"`
}

type schemaInspection struct {
	Name   string `json:"name"`
	Quoted string `json:"quoted"`
	Exists *bool  `json:"exists,omitempty"`
}

type inspectFlags struct {
	driver  string
	dsn     string
	schema  string
	product string
}

func newInspectCmd(flags *rootFlags) *cobra.Command {
	inspectFlags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Bind to a database and report the detected product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inspectFlags.dsn == "" {
				return errDSNRequired
			}

			registry, err := flags.registry()
			if err != nil {
				return err
			}

			logger, err := flags.logger(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			conn, err := connect(ctx, inspectFlags.driver, inspectFlags.dsn)
			if err != nil {
				return err
			}
			defer func() { _ = conn.close() }()

			options := []sqlengine.Option{sqlengine.WithContextualLogger(logger)}

			var adapter *sqlengine.Adapter
			if inspectFlags.product != "" {
				adapter, err = registry.BindProduct(ctx, conn.session, inspectFlags.product, options...)
			} else {
				adapter, err = registry.Bind(ctx, conn.session, options...)
			}
			if err != nil {
				return err
			}

			report, err := inspect(ctx, adapter, inspectFlags.schema)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&inspectFlags.driver, flagDriver, driverPGX, "driver (pgx, pgxpool, postgres, mysql, sqlite, sqlserver)")
	cmd.Flags().StringVar(&inspectFlags.dsn, flagDSN, "", "data source name passed to the driver")
	cmd.Flags().StringVar(&inspectFlags.schema, flagSchema, "", "schema to look up in the catalog")
	cmd.Flags().StringVar(&inspectFlags.product, flagProduct, "", "skip detection and bind this product")

	return cmd
}

func inspect(ctx context.Context, adapter *sqlengine.Adapter, schemaName string) (inspection, error) {
	product := adapter.Product()

	user, err := adapter.CurrentUser(ctx)
	if err != nil {
		return inspection{}, err
	}

	schema, err := adapter.CurrentSchema(ctx)
	if err != nil {
		return inspection{}, err
	}

	report := inspection{
		AdapterID:     adapter.ID(),
		Product:       product.Name,
		Version:       product.Version.String(),
		Banner:        product.Banner,
		Capabilities:  withMinimumLabel(adapter.Capabilities()),
		CurrentUser:   user,
		CurrentSchema: schema,
	}

	if schemaName == "" {
		return report, nil
	}

	handle := adapter.Schema(schemaName)
	report.Schema = &schemaInspection{Name: handle.Name(), Quoted: handle.Quoted()}

	exists, err := handle.Exists(ctx)
	switch {
	case errors.Is(err, dialect.ErrOperationNotSupported):
	case err != nil:
		return inspection{}, err
	default:
		report.Schema.Exists = &exists
	}

	return report, nil
}
