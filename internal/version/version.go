package version

// Version is stamped via -ldflags at release time.
var Version = "0.2.0"
