package bind

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/screwyprof/vesting/pkg/httpkit"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
)

// Sentinel errors for request binding
var (
	ErrMissingSender = errors.New("missing " + httpkit.SenderHeader + " header")
	ErrInvalidBody   = errors.New("invalid request body")

	ErrInvalidAddress = errors.New("invalid address parameter")
	ErrInvalidTime    = errors.New("invalid time parameter")

	// Specific parameter validation errors
	ErrAddressRequired = errors.New("address is required")
	ErrTimeFormat      = errors.New("time must be unix seconds or RFC3339")
	ErrTimeNegative    = errors.New("time can't be before 1970")
)

// Sender binds the address a request acts on behalf of.
func Sender(r *http.Request) (vesting.Address, error) {
	sender := strings.TrimSpace(r.Header.Get(httpkit.SenderHeader))
	if sender == "" {
		return vesting.Placeholder, ErrMissingSender
	}
	return vesting.Address(sender), nil
}

// Body decodes the JSON request body into a T.
func Body[T any](r *http.Request) (T, error) {
	var req T
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return req, nil
}

// GetProgressRequest binds HTTP request to ProgressRequest
func GetProgressRequest(r *http.Request) (api.ProgressRequest, error) {
	query := r.URL.Query()

	addr := strings.TrimSpace(query.Get("address"))
	if addr == "" {
		return api.ProgressRequest{}, fmt.Errorf("%w: %w", ErrInvalidAddress, ErrAddressRequired)
	}
	req := api.ProgressRequest{Address: vesting.Address(addr)}

	if timeParam := query.Get("time"); timeParam != "" {
		at, err := ParseTime(timeParam)
		if err != nil {
			return req, fmt.Errorf("%w: %w", ErrInvalidTime, err)
		}
		req.Time = at
	}

	return req, nil
}

// ParseTime reads unix seconds or an RFC3339 timestamp.
func ParseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs < 0 {
			return time.Time{}, ErrTimeNegative
		}
		return time.Unix(secs, 0).UTC(), nil
	}

	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrTimeFormat
	}
	return at.UTC(), nil
}

// GetBalanceResponse binds a token balance to API response format
func GetBalanceResponse(addr vesting.Address, amount sdkmath.Int) api.BalanceResponse {
	return api.BalanceResponse{Address: addr, Amount: amount}
}
