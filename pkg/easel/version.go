// Package easel holds module-level metadata.
package easel

const Version = "0.1.0"
