package types

// Version is the shipper version, overwritten at build time via -ldflags
var Version = "dev"
