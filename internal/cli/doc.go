// Package cli implements the bacc command tree: the guided calculator and
// survey flow, the calc, scenarios, survey, serve, watch and events
// commands, and the config, init, version and completion helpers.
package cli
