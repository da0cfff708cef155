package dialect

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Profile is the immutable per-product configuration a generic adapter is parameterized with.
// Everything that differs between products (probe SQL, literals, quoting, statement rules)
// lives here instead of in per-product code paths.
type Profile struct {
	// ID is the normalized identifier the registry dispatches on (see NormalizeProductID).
	ID string

	// Name is the display name used in errors and logs.
	Name string

	// Aliases are additional product strings that map to this profile.
	Aliases []string

	Capabilities Capabilities
	Quoter       Quoter
	Probes       Probes
	Detection    Detection
	Statements   StatementRules
	Schemas      SchemaSQL
}

// Probes holds the session-inspection SQL of a product.
type Probes struct {
	CurrentUser   Probe
	CurrentSchema Probe

	// ChangeSchema is a format string with exactly one %s that receives the quoted schema name.
	// Empty means the product cannot switch schemas per session.
	ChangeSchema string
}

// Probe is a single-value query. When SQL is empty, Static is returned without touching the session.
type Probe struct {
	SQL    string
	Static string
}

// IsStatic reports whether the probe never touches the session.
func (p Probe) IsStatic() bool {
	return strings.TrimSpace(p.SQL) == ""
}

// Detection tells a detector how to recognize the product.
type Detection struct {
	// Query returns a single banner or version string.
	Query string

	// Match must match the banner for the product to be selected.
	Match string

	// VersionPattern extracts major and minor as the first two submatches.
	// Empty means the first "N.N" in the banner.
	VersionPattern string
}

// SchemaSQL holds what a Schema handle needs to inspect and manage schemas.
type SchemaSQL struct {
	// QueryDialect names the goqu dialect used to render catalog lookups ("postgres", "mysql",
	// "sqlite3", "sqlserver" or "default").
	QueryDialect string

	// CatalogSchema, CatalogTable and NameColumn locate the system table that lists schemas.
	CatalogSchema string
	CatalogTable  string
	NameColumn    string

	// Create and Drop are format strings with one %s receiving the quoted schema name.
	Create string
	Drop   string
}

// Validate checks that the profile is complete enough to back an adapter.
func (p Profile) Validate() error {
	var problems []error

	if p.ID == "" {
		problems = append(problems, errors.New("id must not be empty"))
	} else if NormalizeProductID(p.ID) != p.ID {
		problems = append(problems, fmt.Errorf("id %q is not normalized, expected %q", p.ID, NormalizeProductID(p.ID)))
	}
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, errors.New("name must not be empty"))
	}
	if p.Quoter == nil {
		problems = append(problems, errors.New("quoter must not be nil"))
	}
	if p.Capabilities.BooleanTrue == "" || p.Capabilities.BooleanFalse == "" {
		problems = append(problems, errors.New("boolean literals must not be empty"))
	}
	if p.Statements.Delimiter == "" {
		problems = append(problems, errors.New("statement delimiter must not be empty"))
	}
	if cs := p.Probes.ChangeSchema; cs != "" && strings.Count(cs, "%s") != 1 {
		problems = append(problems, fmt.Errorf("change schema statement %q must contain exactly one %%s", cs))
	}
	for _, f := range []string{p.Schemas.Create, p.Schemas.Drop} {
		if f != "" && strings.Count(f, "%s") != 1 {
			problems = append(problems, fmt.Errorf("schema statement %q must contain exactly one %%s", f))
		}
	}
	if _, err := p.Detection.compile(); err != nil {
		problems = append(problems, err)
	}

	if len(problems) > 0 {
		return errors.Join(append([]error{ErrInvalidProfile, fmt.Errorf("profile %q", p.ID)}, problems...)...)
	}

	return nil
}

// Clone returns a deep copy, so callers cannot mutate a registered profile through shared slices.
func (p Profile) Clone() Profile {
	c := p
	c.Aliases = slices.Clone(p.Aliases)
	c.Statements.BlockPrefixes = slices.Clone(p.Statements.BlockPrefixes)

	return c
}

// CompiledDetection is a Detection with its patterns compiled.
type CompiledDetection struct {
	Query          string
	Match          *regexp.Regexp
	VersionPattern *regexp.Regexp
}

// Compile compiles the detection patterns.
func (d Detection) Compile() (CompiledDetection, error) {
	return d.compile()
}

func (d Detection) compile() (CompiledDetection, error) {
	c := CompiledDetection{Query: d.Query}

	if d.Match != "" {
		m, err := regexp.Compile(d.Match)
		if err != nil {
			return CompiledDetection{}, fmt.Errorf("detection match %q: %w", d.Match, err)
		}
		c.Match = m
	}

	if d.VersionPattern != "" {
		v, err := regexp.Compile(d.VersionPattern)
		if err != nil {
			return CompiledDetection{}, fmt.Errorf("detection version pattern %q: %w", d.VersionPattern, err)
		}
		if v.NumSubexp() < 2 {
			return CompiledDetection{}, fmt.Errorf("detection version pattern %q needs two submatches", d.VersionPattern)
		}
		c.VersionPattern = v
	}

	return c, nil
}

// Matches reports whether banner belongs to the product. A detection without Match never matches.
func (c CompiledDetection) Matches(banner string) bool {
	return c.Match != nil && c.Match.MatchString(banner)
}
