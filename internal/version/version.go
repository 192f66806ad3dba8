// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Watch mode, TOML export, configurable appearances and timeline
// 0.2.0 - Terminal cluster view with orbit camera, JSON scene export
// 0.1.0 - Initial release: snapshot parser, classifier, batch plan, summary table
