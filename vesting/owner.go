package vesting

import (
	errorsmod "cosmossdk.io/errors"
)

// requireOwner guards every mutating operation.
// Nobody passes once the owner has been cleared with Disown.
func requireOwner(owner, sender Address) error {
	if owner.IsPlaceholder() || sender != owner {
		return errorsmod.Wrapf(ErrUnauthorized, "%q is not the owner", sender)
	}
	return nil
}

func checkNewOwner(newOwner Address) error {
	if newOwner.IsPlaceholder() {
		return errorsmod.Wrap(ErrValidation, "new owner can't be empty")
	}
	return nil
}
