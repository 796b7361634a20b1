//go:build !freebsd

package commands

import (
	"errors"
	"fmt"
)

func securityJailed() (bool, error) {
	return false, fmt.Errorf("jail sysctls: %w", errors.ErrUnsupported)
}
