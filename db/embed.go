// Package db embeds the SQL schema so migrations run without external files.
package db

import _ "embed"

// Schema holds the DDL for every table and index. Statements are idempotent
// (CREATE ... IF NOT EXISTS), so running them on every start is safe.
//
//go:embed migrations/001_schema.sql
var Schema string
