package engine

import "github.com/rs/zerolog/log"

// Log is the package-wide logger for creation/insert events (spec §9 design
// note on instrumentation). It defaults to zerolog's global logger; cmd/server
// repoints it at the configured sink during startup.
var Log = log.Logger
