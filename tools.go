//go:build tools

// Package tools pins code generators used by the build.
package tools

import (
	_ "github.com/sqlc-dev/sqlc/cmd/sqlc"
)
