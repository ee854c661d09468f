package vesting

// Address identifies an account holder: a claimant, an owner, the manager
// or the splitter.
type Address string

// Placeholder is the unset address. Schedules may contain it until the real
// recipient is known; it is replaced with RebindAccountAddress.
const Placeholder Address = ""

// IsPlaceholder reports whether the address has not been set yet.
func (a Address) IsPlaceholder() bool {
	return a == Placeholder
}

func (a Address) String() string {
	return string(a)
}
