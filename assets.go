// Package installer holds the scaffold tree the maginium binary discovers its
// commands and configuration fragments from.
package installer

import "embed"

// Scaffold is the built-in scaffold. Paths are rooted at the module, so the
// fragments live under src/Configs and the command units under src/Commands.
//
//go:embed src
var Scaffold embed.FS
