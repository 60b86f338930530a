package version

// Version is overridden at build time with
// -ldflags "-X github.com/livp123/phaselog/internal/version.Version=v1.2.3".
// Version 在构建时通过 -ldflags 覆盖。
var Version = "dev"
