// Package version carries build metadata injected at link time.
package version

// GitVersion is set via -ldflags "-X .../pkg/version.GitVersion=<tag>".
var GitVersion = "v0.1.0-dev"
