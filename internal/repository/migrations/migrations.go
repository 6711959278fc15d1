// Package migrations embeds the session store schema for every supported engine.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per engine.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
