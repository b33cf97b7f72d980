package tome

import _ "embed"

// Version is the release of the library and the tome command.
//
//go:embed VERSION
var Version string
