package products

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/sqldialect-go/dialect"
)

// Format is the encoding of a product catalog.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath derives the catalog format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("unsupported catalog file extension in %q", path))
	}
}

type catalogFile struct {
	Products []catalogEntry `toml:"products" yaml:"products"`
}

// catalogEntry mirrors dialect.Profile. Nil fields inherit from the extended profile.
type catalogEntry struct {
	ID      string   `toml:"id" yaml:"id"`
	Extends string   `toml:"extends" yaml:"extends"`
	Name    *string  `toml:"name" yaml:"name"`
	Aliases []string `toml:"aliases" yaml:"aliases"`

	MinVersion              *string `toml:"min_version" yaml:"min_version"`
	MinVersionLabel         *string `toml:"min_version_label" yaml:"min_version_label"`
	SupportsDDLTransactions *bool   `toml:"supports_ddl_transactions" yaml:"supports_ddl_transactions"`
	BooleanTrue             *string `toml:"boolean_true" yaml:"boolean_true"`
	BooleanFalse            *string `toml:"boolean_false" yaml:"boolean_false"`
	CatalogIsSchema         *bool   `toml:"catalog_is_schema" yaml:"catalog_is_schema"`
	SingleConnectionOnly    *bool   `toml:"single_connection_only" yaml:"single_connection_only"`

	Quote      *catalogQuote      `toml:"quote" yaml:"quote"`
	Probes     *catalogProbes     `toml:"probes" yaml:"probes"`
	Detection  *catalogDetection  `toml:"detection" yaml:"detection"`
	Statements *catalogStatements `toml:"statements" yaml:"statements"`
	Schemas    *catalogSchemas    `toml:"schemas" yaml:"schemas"`
}

type catalogQuote struct {
	Open   string `toml:"open" yaml:"open"`
	Close  string `toml:"close" yaml:"close"`
	Escape string `toml:"escape" yaml:"escape"`
}

type catalogProbes struct {
	CurrentUser         *string `toml:"current_user" yaml:"current_user"`
	CurrentUserStatic   *string `toml:"current_user_static" yaml:"current_user_static"`
	CurrentSchema       *string `toml:"current_schema" yaml:"current_schema"`
	CurrentSchemaStatic *string `toml:"current_schema_static" yaml:"current_schema_static"`
	ChangeSchema        *string `toml:"change_schema" yaml:"change_schema"`
}

type catalogDetection struct {
	Query          *string `toml:"query" yaml:"query"`
	Match          *string `toml:"match" yaml:"match"`
	VersionPattern *string `toml:"version_pattern" yaml:"version_pattern"`
}

type catalogStatements struct {
	Delimiter          *string  `toml:"delimiter" yaml:"delimiter"`
	DelimiterDirective *string  `toml:"delimiter_directive" yaml:"delimiter_directive"`
	BatchSeparator     *string  `toml:"batch_separator" yaml:"batch_separator"`
	BlockTerminator    *string  `toml:"block_terminator" yaml:"block_terminator"`
	BlockPrefixes      []string `toml:"block_prefixes" yaml:"block_prefixes"`
	Quotes             *string  `toml:"quotes" yaml:"quotes"`
	BackslashEscapes   *bool    `toml:"backslash_escapes" yaml:"backslash_escapes"`
	DollarQuoting      *bool    `toml:"dollar_quoting" yaml:"dollar_quoting"`
	NestedComments     *bool    `toml:"nested_comments" yaml:"nested_comments"`
	HashComments       *bool    `toml:"hash_comments" yaml:"hash_comments"`
}

type catalogSchemas struct {
	QueryDialect  *string `toml:"query_dialect" yaml:"query_dialect"`
	CatalogSchema *string `toml:"catalog_schema" yaml:"catalog_schema"`
	CatalogTable  *string `toml:"catalog_table" yaml:"catalog_table"`
	NameColumn    *string `toml:"name_column" yaml:"name_column"`
	Create        *string `toml:"create" yaml:"create"`
	Drop          *string `toml:"drop" yaml:"drop"`
}

// LoadCatalog reads a product catalog file. The format follows the file extension.
func LoadCatalog(path string) ([]dialect.Profile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("read catalog: %w", err))
	}

	return ParseCatalog(data, format)
}

// ParseCatalog decodes a product catalog and resolves every entry into a validated profile.
// An entry can extend a built-in product or an entry defined earlier in the same catalog.
func ParseCatalog(data []byte, format Format) ([]dialect.Profile, error) {
	var file catalogFile

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &file)
		if err != nil {
			return nil, errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("parse catalog: %w", err))
		}
		if unknown := md.Undecoded(); len(unknown) > 0 {
			keys := make([]string, len(unknown))
			for i, k := range unknown {
				keys[i] = k.String()
			}
			return nil, errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("unknown catalog keys: %s", strings.Join(keys, ", ")))
		}

	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("parse catalog: %w", err))
		}

	default:
		return nil, errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("unsupported catalog format %q", format))
	}

	defined := make(map[string]dialect.Profile)
	profiles := make([]dialect.Profile, 0, len(file.Products))

	for i, entry := range file.Products {
		p, err := entry.resolve(defined)
		if err != nil {
			return nil, errors.Join(dialect.ErrInvalidCatalog, fmt.Errorf("catalog entry %d (%q)", i+1, entry.ID), err)
		}

		if _, dup := defined[p.ID]; dup {
			return nil, errors.Join(dialect.ErrInvalidCatalog, dialect.ErrDuplicateProduct, fmt.Errorf("catalog entry %q is defined twice", p.ID))
		}

		defined[p.ID] = p
		profiles = append(profiles, p.Clone())
	}

	return profiles, nil
}

func (e catalogEntry) resolve(defined map[string]dialect.Profile) (dialect.Profile, error) {
	id := dialect.NormalizeProductID(e.ID)
	if id == "" {
		return dialect.Profile{}, errors.New("id must not be empty")
	}

	p := dialect.Profile{
		Quoter:     dialect.DoubleQuotes,
		Statements: dialect.StatementRules{Delimiter: ";", Quotes: `'"`},
	}

	if e.Extends != "" {
		base, ok := defined[dialect.NormalizeProductID(e.Extends)]
		if !ok {
			base, ok = ByID(e.Extends)
		}
		if !ok {
			return dialect.Profile{}, fmt.Errorf("extends unknown product %q", e.Extends)
		}
		p = base.Clone()
		p.Aliases = nil // aliases of the base stay with the base
	}

	p.ID = id
	if e.Name != nil {
		p.Name = *e.Name
	} else if e.Extends == "" {
		p.Name = e.ID
	}
	p.Aliases = append(p.Aliases, e.Aliases...)

	if err := e.applyCapabilities(&p.Capabilities); err != nil {
		return dialect.Profile{}, err
	}

	if q := e.Quote; q != nil {
		escape, ok := dialect.ParseEscapeStyle(q.Escape)
		if !ok {
			return dialect.Profile{}, fmt.Errorf("unknown quote escape style %q", q.Escape)
		}
		if q.Open == "" || q.Close == "" {
			return dialect.Profile{}, errors.New("quote open and close must not be empty")
		}
		p.Quoter = dialect.EnclosingQuoter{Open: q.Open, Close: q.Close, Escape: escape}
	}

	e.Probes.apply(&p.Probes)
	e.Detection.apply(&p.Detection)
	e.Statements.apply(&p.Statements)
	e.Schemas.apply(&p.Schemas)

	if err := p.Validate(); err != nil {
		return dialect.Profile{}, err
	}

	return p, nil
}

func (e catalogEntry) applyCapabilities(c *dialect.Capabilities) error {
	if e.MinVersion != nil {
		v, err := dialect.ParseVersion(*e.MinVersion)
		if err != nil {
			return fmt.Errorf("min_version %q: %w", *e.MinVersion, err)
		}
		c.MinVersion = v
		c.MinVersionLabel = ""
	}

	set(&c.MinVersionLabel, e.MinVersionLabel)
	set(&c.SupportsDDLTransactions, e.SupportsDDLTransactions)
	set(&c.BooleanTrue, e.BooleanTrue)
	set(&c.BooleanFalse, e.BooleanFalse)
	set(&c.CatalogIsSchema, e.CatalogIsSchema)
	set(&c.SingleConnectionOnly, e.SingleConnectionOnly)

	return nil
}

func (c *catalogProbes) apply(p *dialect.Probes) {
	if c == nil {
		return
	}

	if c.CurrentUser != nil {
		p.CurrentUser = dialect.Probe{SQL: *c.CurrentUser}
	}
	if c.CurrentUserStatic != nil {
		p.CurrentUser = dialect.Probe{Static: *c.CurrentUserStatic}
	}
	if c.CurrentSchema != nil {
		p.CurrentSchema = dialect.Probe{SQL: *c.CurrentSchema}
	}
	if c.CurrentSchemaStatic != nil {
		p.CurrentSchema = dialect.Probe{Static: *c.CurrentSchemaStatic}
	}
	set(&p.ChangeSchema, c.ChangeSchema)
}

func (c *catalogDetection) apply(d *dialect.Detection) {
	if c == nil {
		return
	}

	set(&d.Query, c.Query)
	set(&d.Match, c.Match)
	set(&d.VersionPattern, c.VersionPattern)
}

func (c *catalogStatements) apply(s *dialect.StatementRules) {
	if c == nil {
		return
	}

	set(&s.Delimiter, c.Delimiter)
	set(&s.DelimiterDirective, c.DelimiterDirective)
	set(&s.BatchSeparator, c.BatchSeparator)
	set(&s.BlockTerminator, c.BlockTerminator)
	if c.BlockPrefixes != nil {
		s.BlockPrefixes = append([]string(nil), c.BlockPrefixes...)
	}
	set(&s.Quotes, c.Quotes)
	set(&s.BackslashEscapes, c.BackslashEscapes)
	set(&s.DollarQuoting, c.DollarQuoting)
	set(&s.NestedComments, c.NestedComments)
	set(&s.HashComments, c.HashComments)
}

func (c *catalogSchemas) apply(s *dialect.SchemaSQL) {
	if c == nil {
		return
	}

	set(&s.QueryDialect, c.QueryDialect)
	set(&s.CatalogSchema, c.CatalogSchema)
	set(&s.CatalogTable, c.CatalogTable)
	set(&s.NameColumn, c.NameColumn)
	set(&s.Create, c.Create)
	set(&s.Drop, c.Drop)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
