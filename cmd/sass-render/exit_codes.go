package main

import "errors"

// Exit codes for sass-render.
const (
	ExitSuccess = 0 // Every stylesheet rendered
	ExitRender  = 1 // At least one render failed
	ExitUsage   = 2 // Invalid flags, config or source selection
)

// Sentinel errors wrapped by command errors to select the exit code.
var (
	errUsage        = errors.New("usage error")
	errRenderFailed = errors.New("render failed")
)

// exitCodeFor returns the appropriate exit code for an error.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errUsage):
		return ExitUsage
	default:
		return ExitRender
	}
}
