// Package commands defines the vizdesign CLI.
//
// Commands
//
//   - render   Render all or the named charts to PNG (optionally with a YAML instruction dump)
//   - dump     Print the drawing-instruction list of the named charts as YAML
//   - list     List configured charts
//
// # Implementation
//
// The root command loads and validates the job file, applies the log level and builds one
// pipeline.Runner before any subcommand runs, so fonts are fetched once per invocation.
package commands
