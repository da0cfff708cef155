// Package products holds the built-in product profiles and the loader for product catalogs.
//
// A catalog is a TOML or YAML file that adds products, or variants of built-in ones,
// without code changes:
//
//	[[products]]
//	id = "derby_legacy"
//	extends = "derby"
//	name = "Derby (legacy)"
//	min_version = "10.5"
//
//	[products.detection]
//	query = "VALUES SYSCS_UTIL.SYSCS_GET_DATABASE_PROPERTY('DataDictionaryVersion')"
//	match = '^10\.[5-7]'
//
// Unknown keys are rejected so typos surface at load time.
package products
