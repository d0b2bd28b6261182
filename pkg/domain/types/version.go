package types

// Version is the application version, overwritten at build time via -ldflags.
var Version = "dev"

// ServiceName is used in health responses and the User-Agent header.
const ServiceName = "orgwatch"
