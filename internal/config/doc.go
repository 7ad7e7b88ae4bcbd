// Package config loads void's settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults
//  2. The user file: --config, else <config dir>/config.toml, else
//     <config dir>/config.yaml
//  3. VOID_ environment variables
//
// The merged map is decoded into a typed Config. Values of the wrong type
// or out of range are reported and replaced by their defaults, so Load
// always returns a usable Config alongside any problems it found.
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment sources plus map merging
//   - watcher: debounced change notification for the user file
package config
