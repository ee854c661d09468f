package api

import (
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/screwyprof/vesting/vesting"
)

// ProgressRequest represents the query parameters for GET /mgmt/progress
type ProgressRequest struct {
	Address vesting.Address `query:"address"` // Required claimant address
	Time    time.Time       `query:"time"`    // Optional unix seconds or RFC3339, zero means now
}

// ConfigureRequest is the body of POST /mgmt/configure
type ConfigureRequest struct {
	Schedule vesting.Schedule `json:"schedule"`
}

// AddAccountRequest is the body of POST /mgmt/accounts
type AddAccountRequest struct {
	PoolName string          `json:"pool_name"`
	Account  vesting.Account `json:"account"`
}

// RebindAccountRequest is the body of POST /mgmt/accounts/address
type RebindAccountRequest struct {
	PoolName    string          `json:"pool_name"`
	AccountName string          `json:"account_name"`
	Address     vesting.Address `json:"address"`
}

// SetOwnerRequest is the body of POST /mgmt/owner and POST /rpt/owner
type SetOwnerRequest struct {
	NewOwner vesting.Address `json:"new_owner"`
}

// SplitConfigureRequest is the body of POST /rpt/configure
type SplitConfigureRequest struct {
	Config vesting.SplitConfig `json:"config"`
}

// BalanceResponse represents the API response format for GET /balances/{address}
type BalanceResponse struct {
	Address vesting.Address `json:"address"`
	Amount  sdkmath.Int     `json:"amount"`
}

// Responses reuse the domain's JSON representation.
type (
	StatusResponse   = vesting.ManagerStatus
	ScheduleResponse = vesting.Schedule
	AccountResponse  = vesting.Account
	ProgressResponse = vesting.Progress
	TransferResponse = vesting.Transfer
	SplitterResponse = vesting.SplitterState
	VestResponse     = vesting.Vesting
)
