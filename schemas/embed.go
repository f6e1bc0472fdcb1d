// Package schemas embeds the journal database migrations and applies them.
package schemas

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
