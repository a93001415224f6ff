// Package behavior defines the companion's behavioral modes, the discrete
// events that move between them, and the data-driven transition table.
package behavior

import "embed"

// dataFS embeds the transition table at build time.
//
//go:embed *.json
var dataFS embed.FS
