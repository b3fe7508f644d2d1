// Package catalog embeds the goose migrations for the catalog snapshot store.
package catalog

import "embed"

//go:embed *.sql
var FS embed.FS
