package bundle

import "embed"

// Bundle holds the Rego policies shipped with dspolicy
//
//go:embed *.rego
var Bundle embed.FS
