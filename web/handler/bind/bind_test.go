package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/pkg/httpkit"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
	"github.com/screwyprof/vesting/web/handler/bind"
)

func TestGetProgressRequest(t *testing.T) {
	t.Parallel()

	t.Run("it accepts unix seconds", func(t *testing.T) {
		t.Parallel()

		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/mgmt/progress?address=secret1alice&time=1630497600", nil)

		// Act
		req, err := bind.GetProgressRequest(r)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, vesting.Address("secret1alice"), req.Address)
		assert.Equal(t, time.Date(2021, time.September, 1, 12, 0, 0, 0, time.UTC), req.Time)
	})

	t.Run("it accepts RFC3339 and normalizes to UTC", func(t *testing.T) {
		t.Parallel()

		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/mgmt/progress?address=secret1alice&time=2021-09-01T14:00:00%2B02:00", nil)

		// Act
		req, err := bind.GetProgressRequest(r)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, time.Date(2021, time.September, 1, 12, 0, 0, 0, time.UTC), req.Time)
	})

	t.Run("it leaves time zero when omitted", func(t *testing.T) {
		t.Parallel()

		// Arrange
		r := httptest.NewRequest(http.MethodGet, "/mgmt/progress?address=secret1alice", nil)

		// Act
		req, err := bind.GetProgressRequest(r)

		// Assert
		require.NoError(t, err)
		assert.True(t, req.Time.IsZero())
	})

	t.Run("it rejects invalid parameters", func(t *testing.T) {
		t.Parallel()

		tests := map[string]struct {
			query string
			want  error
		}{
			"missing address": {"time=1", bind.ErrAddressRequired},
			"garbage time":    {"address=secret1alice&time=yesterday", bind.ErrTimeFormat},
			"negative time":   {"address=secret1alice&time=-5", bind.ErrTimeNegative},
		}

		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				// Arrange
				r := httptest.NewRequest(http.MethodGet, "/mgmt/progress?"+tc.query, nil)

				// Act
				_, err := bind.GetProgressRequest(r)

				// Assert
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestSender(t *testing.T) {
	t.Parallel()

	t.Run("it reads the sender header", func(t *testing.T) {
		t.Parallel()

		// Arrange
		r := httptest.NewRequest(http.MethodPost, "/mgmt/launch", nil)
		r.Header.Set(httpkit.SenderHeader, " secret1admin ")

		// Act
		sender, err := bind.Sender(r)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, vesting.Address("secret1admin"), sender)
	})

	t.Run("it requires the sender header", func(t *testing.T) {
		t.Parallel()

		// Arrange
		r := httptest.NewRequest(http.MethodPost, "/mgmt/launch", nil)

		// Act
		_, err := bind.Sender(r)

		// Assert
		assert.ErrorIs(t, err, bind.ErrMissingSender)
	})
}

func TestBody(t *testing.T) {
	t.Parallel()

	t.Run("it decodes amounts given as strings", func(t *testing.T) {
		t.Parallel()

		// Arrange
		body := `{"pool_name":"Investors","account":{"name":"Alice","address":"secret1alice","amount":"100","interval":10,"duration":40}}`
		r := httptest.NewRequest(http.MethodPost, "/mgmt/accounts", strings.NewReader(body))

		// Act
		req, err := bind.Body[api.AddAccountRequest](r)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Investors", req.PoolName)
		assert.Equal(t, "100", req.Account.Amount.String())
		assert.Equal(t, vesting.Seconds(40), req.Account.Duration)
	})

	t.Run("it rejects malformed bodies", func(t *testing.T) {
		t.Parallel()

		tests := map[string]struct {
			body string
			want error
		}{
			"empty":           {"", httpkit.ErrEmptyBody},
			"not json":        {"pool_name=Investors", httpkit.ErrMalformedBody},
			"unknown field":   {`{"new_owner":"secret1bob","owner":"secret1bob"}`, httpkit.ErrMalformedBody},
			"trailing data":   {`{"new_owner":"secret1bob"} {}`, httpkit.ErrMalformedBody},
			"numeric address": {`{"new_owner":7}`, httpkit.ErrMalformedBody},
		}

		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				// Arrange
				r := httptest.NewRequest(http.MethodPost, "/mgmt/owner", strings.NewReader(tc.body))

				// Act
				_, err := bind.Body[api.SetOwnerRequest](r)

				// Assert
				assert.ErrorIs(t, err, bind.ErrInvalidBody)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}
