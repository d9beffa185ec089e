package pdfrag

// Version is overridden at build time with -ldflags.
var Version = "v0.0.1-dev"
