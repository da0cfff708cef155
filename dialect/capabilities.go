package dialect

// Capabilities is the fixed set of traits of one database product.
// It is a value type: copies handed out by an adapter cannot affect the adapter.
type Capabilities struct {
	// SupportsDDLTransactions reports whether DDL can be rolled back as part of a transaction.
	SupportsDDLTransactions bool `toml:"supports_ddl_transactions" yaml:"supports_ddl_transactions" json:"supportsDdlTransactions"`

	// BooleanTrue and BooleanFalse are the literals the backend parses in boolean contexts.
	// They are used verbatim when generating SQL.
	BooleanTrue  string `toml:"boolean_true" yaml:"boolean_true" json:"booleanTrue"`
	BooleanFalse string `toml:"boolean_false" yaml:"boolean_false" json:"booleanFalse"`

	// CatalogIsSchema reports whether "catalog" and "schema" name the same concept (MySQL databases).
	CatalogIsSchema bool `toml:"catalog_is_schema" yaml:"catalog_is_schema" json:"catalogIsSchema"`

	// SingleConnectionOnly tells the caller to serialize all access through exactly one connection.
	SingleConnectionOnly bool `toml:"single_connection_only" yaml:"single_connection_only" json:"singleConnectionOnly"`

	// MinVersion is the oldest supported major/minor; MinVersionLabel is how it is shown to users.
	MinVersion      Version `toml:"-" yaml:"-" json:"-"`
	MinVersionLabel string  `toml:"-" yaml:"-" json:"minVersion"`
}

// EnsureSupported is the version gate. It fails with an *UpgradeRequiredError
// when detected is older than MinVersion.
func (c Capabilities) EnsureSupported(product string, detected Version) error {
	if detected.AtLeast(c.MinVersion) {
		return nil
	}

	return &UpgradeRequiredError{
		Product:  product,
		Detected: detected.String(),
		Minimum:  c.minimumLabel(),
	}
}

func (c Capabilities) minimumLabel() string {
	if c.MinVersionLabel != "" {
		return c.MinVersionLabel
	}

	return c.MinVersion.String()
}
