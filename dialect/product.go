package dialect

import (
	"strings"

	"golang.org/x/text/cases"
)

// ProductInfo is what detection learned about the backend behind a session.
type ProductInfo struct {
	// ID is the normalized product identifier the registry dispatches on, e.g. "derby".
	ID string `json:"id"`

	// Name is the human-readable product name, e.g. "Derby".
	Name string `json:"name"`

	// Version is the detected major/minor version.
	Version Version `json:"-"`

	// Banner is the raw string the version probe returned.
	Banner string `json:"banner,omitempty"`
}

// NormalizeProductID folds case and separators so "Apache Derby", "apache-derby"
// and "APACHE_DERBY" all map to "apache_derby".
func NormalizeProductID(name string) string {
	n := cases.Fold().String(strings.TrimSpace(name))

	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '/':
			return '_'
		default:
			return r
		}
	}, n)
}
