// Package cmd holds the pieces of the command line tools that depend on how
// the binary was built.
package cmd

import "errors"

var ErrUnknownBackend = errors.New("unknown audio backend")
