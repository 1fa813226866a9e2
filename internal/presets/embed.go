// Package presets provides embedded generation presets and the tile palette.
package presets

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
