package commands

import (
	"errors"

	"courierpos/internal/pkg/guard"
)

var ErrExpireOverridesCommandIsNotConstructed = errors.New(
	"ExpireOverridesCommand must be created via NewExpireOverridesCommand constructor",
)

// ExpireOverridesCommand represents a sweep of Pending overrides past their
// deadline. Issued by the scheduler, not by users.
type ExpireOverridesCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireOverridesCommand creates a command to run the expiry sweep.
func NewExpireOverridesCommand() ExpireOverridesCommand {
	return ExpireOverridesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ExpireOverridesCommand) Validate() error {
	return c.guard.Validate(ErrExpireOverridesCommandIsNotConstructed)
}
