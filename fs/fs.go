// Package appfs embeds the files the binaries ship with.
package appfs

import "embed"

//go:embed web
var FS embed.FS
