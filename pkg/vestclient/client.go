// Package vestclient talks to the vesting web API.
package vestclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/screwyprof/vesting/pkg/httpkit"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
)

// Sentinel errors for client operations
var (
	ErrRequestFailed    = errors.New("request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrDecodeResponse   = errors.New("decoding response")
)

// APIError is an error response returned by the server. It matches the
// vesting error its reason names, so callers can use errors.Is.
type APIError struct {
	Status int
	api.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Reason, e.Message)
}

func (e *APIError) Unwrap() error {
	return reasonErrors[e.Reason]
}

var reasonErrors = map[string]error{
	api.ReasonValidation:     vesting.ErrValidation,
	api.ReasonUnauthorized:   vesting.ErrUnauthorized,
	api.ReasonNotFound:       vesting.ErrNotFound,
	api.ReasonConflict:       vesting.ErrConflict,
	api.ReasonNotLaunched:    vesting.ErrNotLaunched,
	api.ReasonNothingToClaim: vesting.ErrNothingToClaim,
}

// Client represents a vesting API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	sender     vesting.Address
}

// Option configures the Client
type Option func(*Client)

// WithSender sets the address mutating requests are sent on behalf of
func WithSender(sender vesting.Address) Option {
	return func(c *Client) { c.sender = sender }
}

// NewClient creates a new vesting API client
func NewClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// As returns a copy of the client acting on behalf of sender.
func (c *Client) As(sender vesting.Address) *Client {
	clone := *c
	clone.sender = sender
	return &clone
}

// Status returns the manager status
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var resp api.StatusResponse
	return resp, c.do(ctx, http.MethodGet, "/mgmt/status", nil, &resp)
}

// Schedule returns the configured schedule
func (c *Client) Schedule(ctx context.Context) (api.ScheduleResponse, error) {
	var resp api.ScheduleResponse
	return resp, c.do(ctx, http.MethodGet, "/mgmt/schedule", nil, &resp)
}

// Account returns an account of the schedule
func (c *Client) Account(ctx context.Context, pool, account string) (api.AccountResponse, error) {
	var resp api.AccountResponse
	path := "/mgmt/pools/" + url.PathEscape(pool) + "/accounts/" + url.PathEscape(account)
	return resp, c.do(ctx, http.MethodGet, path, nil, &resp)
}

// Progress returns the claim progress of addr at the given time, or now
// when at is zero.
func (c *Client) Progress(ctx context.Context, addr vesting.Address, at time.Time) (api.ProgressResponse, error) {
	query := url.Values{"address": {addr.String()}}
	if !at.IsZero() {
		query.Set("time", strconv.FormatInt(at.Unix(), 10))
	}

	var resp api.ProgressResponse
	return resp, c.do(ctx, http.MethodGet, "/mgmt/progress?"+query.Encode(), nil, &resp)
}

// Configure replaces the schedule
func (c *Client) Configure(ctx context.Context, schedule vesting.Schedule) (api.StatusResponse, error) {
	var resp api.StatusResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/configure", api.ConfigureRequest{Schedule: schedule}, &resp)
}

// AddAccount adds an account to a pool
func (c *Client) AddAccount(ctx context.Context, pool string, account vesting.Account) (api.AccountResponse, error) {
	var resp api.AccountResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/accounts", api.AddAccountRequest{PoolName: pool, Account: account}, &resp)
}

// RebindAccount changes the address of an account
func (c *Client) RebindAccount(ctx context.Context, pool, account string, addr vesting.Address) (api.AccountResponse, error) {
	req := api.RebindAccountRequest{PoolName: pool, AccountName: account, Address: addr}

	var resp api.AccountResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/accounts/address", req, &resp)
}

// Launch starts vesting and mints the supply
func (c *Client) Launch(ctx context.Context) (api.TransferResponse, error) {
	var resp api.TransferResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/launch", nil, &resp)
}

// Claim pays the sender what unlocked for it
func (c *Client) Claim(ctx context.Context) (api.TransferResponse, error) {
	var resp api.TransferResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/claim", nil, &resp)
}

// SetOwner hands the manager over to newOwner
func (c *Client) SetOwner(ctx context.Context, newOwner vesting.Address) (api.StatusResponse, error) {
	var resp api.StatusResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/owner", api.SetOwnerRequest{NewOwner: newOwner}, &resp)
}

// Disown leaves the manager without an owner
func (c *Client) Disown(ctx context.Context) (api.StatusResponse, error) {
	var resp api.StatusResponse
	return resp, c.do(ctx, http.MethodPost, "/mgmt/disown", nil, &resp)
}

// SplitterStatus returns the splitter state
func (c *Client) SplitterStatus(ctx context.Context) (api.SplitterResponse, error) {
	var resp api.SplitterResponse
	return resp, c.do(ctx, http.MethodGet, "/rpt/status", nil, &resp)
}

// ConfigureSplit replaces the splitter config
func (c *Client) ConfigureSplit(ctx context.Context, cfg vesting.SplitConfig) (api.SplitterResponse, error) {
	var resp api.SplitterResponse
	return resp, c.do(ctx, http.MethodPost, "/rpt/configure", api.SplitConfigureRequest{Config: cfg}, &resp)
}

// Vest claims the splitter's account and distributes it
func (c *Client) Vest(ctx context.Context) (api.VestResponse, error) {
	var resp api.VestResponse
	return resp, c.do(ctx, http.MethodPost, "/rpt/vest", nil, &resp)
}

// SetSplitterOwner hands the splitter over to newOwner
func (c *Client) SetSplitterOwner(ctx context.Context, newOwner vesting.Address) (api.SplitterResponse, error) {
	var resp api.SplitterResponse
	return resp, c.do(ctx, http.MethodPost, "/rpt/owner", api.SetOwnerRequest{NewOwner: newOwner}, &resp)
}

// Balance returns the token balance of addr
func (c *Client) Balance(ctx context.Context, addr vesting.Address) (api.BalanceResponse, error) {
	var resp api.BalanceResponse
	return resp, c.do(ctx, http.MethodGet, "/balances/"+url.PathEscape(addr.String()), nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		doc, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(doc)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if !c.sender.IsPlaceholder() {
		httpReq.Header.Set(httpkit.SenderHeader, c.sender.String())
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Reason == "" {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, ErrorResponse: body}
}
