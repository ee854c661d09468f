package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
)

func TestAPIErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("it exposes all error details safely for BadRequest", func(t *testing.T) {
		t.Parallel()

		// Arrange
		bindErr := errors.New("invalid time parameter: time must be unix seconds or RFC3339")

		// Act
		apiErr := api.BadRequest(bindErr)

		// Assert
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPCode())
		assert.Equal(t, bindErr.Error(), apiErr.Error())
		assert.Equal(t, api.ReasonBadRequest, apiErr.Reason())
		assert.Equal(t, bindErr, apiErr.Cause())
	})

	t.Run("it hides sensitive details for InternalServerError", func(t *testing.T) {
		t.Parallel()

		// Arrange
		internalErr := errors.New("transaction failed: password authentication failed for user 'vesting'")

		// Act
		apiErr := api.InternalServerError(internalErr)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPCode())
		assert.Equal(t, "Internal Server Error", apiErr.Error())
		assert.Equal(t, api.ReasonInternal, apiErr.Reason())
		assert.Equal(t, internalErr, apiErr.Cause())
	})

	t.Run("it classifies vesting errors as client errors", func(t *testing.T) {
		t.Parallel()

		tests := map[string]struct {
			err    error
			code   int
			reason string
		}{
			"validation":       {vesting.ErrValidation, http.StatusBadRequest, api.ReasonValidation},
			"unauthorized":     {vesting.ErrUnauthorized, http.StatusForbidden, api.ReasonUnauthorized},
			"not found":        {vesting.ErrNotFound, http.StatusNotFound, api.ReasonNotFound},
			"conflict":         {vesting.ErrConflict, http.StatusConflict, api.ReasonConflict},
			"not launched":     {vesting.ErrNotLaunched, http.StatusConflict, api.ReasonNotLaunched},
			"nothing to claim": {vesting.ErrNothingToClaim, http.StatusUnprocessableEntity, api.ReasonNothingToClaim},
		}

		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				// Arrange
				err := errorsmod.Wrap(tc.err, "pool Investors")

				// Act
				apiErr := api.Wrap(err)

				// Assert
				require.NotNil(t, apiErr)
				assert.Equal(t, tc.code, apiErr.HTTPCode())
				assert.Equal(t, tc.reason, apiErr.Reason())
				assert.Equal(t, err.Error(), apiErr.Error())
				assert.ErrorIs(t, apiErr, tc.err)
			})
		}
	})

	t.Run("it classifies unknown errors as InternalServerError", func(t *testing.T) {
		t.Parallel()

		// Arrange
		unknownErr := errors.New("some random error")

		// Act
		apiErr := api.Wrap(unknownErr)

		// Assert
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPCode())
		assert.Equal(t, "Internal Server Error", apiErr.Error())
		assert.Equal(t, unknownErr, apiErr.Cause())
	})

	t.Run("it creates correct JSON structure when marshaling", func(t *testing.T) {
		t.Parallel()

		// Arrange
		apiErr := api.Wrap(errorsmod.Wrap(vesting.ErrNothingToClaim, "secret1alice"))

		// Act
		jsonBytes, err := json.Marshal(apiErr)

		// Assert
		require.NoError(t, err)

		var response api.ErrorResponse
		require.NoError(t, json.Unmarshal(jsonBytes, &response))
		assert.Equal(t, http.StatusUnprocessableEntity, response.Code)
		assert.Equal(t, "secret1alice: nothing to claim", response.Message)
		assert.Equal(t, api.ReasonNothingToClaim, response.Reason)
	})

	t.Run("it prevents double-wrapping of API errors", func(t *testing.T) {
		t.Parallel()

		// Arrange
		apiErr1 := api.BadRequest(errors.New("some validation error"))

		// Act
		apiErr2 := api.Wrap(apiErr1)

		// Assert
		assert.Same(t, apiErr1, apiErr2)
	})

	t.Run("it returns nil when wrapping a nil error", func(t *testing.T) {
		t.Parallel()

		// Act
		result := api.Wrap(nil)

		// Assert
		assert.Nil(t, result)
	})
}
