package vesting

import (
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
)

// TransferKind tells why tokens moved.
type TransferKind string

const (
	TransferMint       TransferKind = "mint"
	TransferClaim      TransferKind = "claim"
	TransferDistribute TransferKind = "distribute"
)

// Transfer is a movement of tokens produced by an operation. A mint has no
// sender.
type Transfer struct {
	ID     uuid.UUID    `json:"id"`
	Kind   TransferKind `json:"kind"`
	From   Address      `json:"from"`
	To     Address      `json:"to"`
	Amount sdkmath.Int  `json:"amount"`
	At     time.Time    `json:"at"`
}

func newTransfer(kind TransferKind, from, to Address, amount sdkmath.Int, at time.Time) Transfer {
	return Transfer{
		ID:     uuid.New(),
		Kind:   kind,
		From:   from,
		To:     to,
		Amount: amount,
		At:     at,
	}
}
