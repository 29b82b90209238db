package fsnt

import _ "embed"

// Version is the toolkit release, read from the VERSION file at build time.
//
//go:embed VERSION
var Version string
