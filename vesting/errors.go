package vesting

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of the vesting domain.
const Codespace = "vesting"

// Domain error taxonomy. Every failed operation wraps exactly one of these,
// so callers classify results with errors.Is.
// NOTE: error codes must start from 2.
var (
	ErrValidation     = errorsmod.Register(Codespace, 2, "validation error")
	ErrNotFound       = errorsmod.Register(Codespace, 3, "not found")
	ErrConflict       = errorsmod.Register(Codespace, 4, "conflict")
	ErrUnauthorized   = errorsmod.Register(Codespace, 5, "unauthorized")
	ErrNotLaunched    = errorsmod.Register(Codespace, 6, "not launched yet")
	ErrNothingToClaim = errorsmod.Register(Codespace, 7, "nothing to claim")
)
