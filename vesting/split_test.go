package vesting_test

import (
	"fmt"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/vesting"
)

func recipient(addr vesting.Address, weight string) vesting.Recipient {
	return vesting.Recipient{Address: addr, Weight: amount(weight)}
}

func activeConfig(recipients ...vesting.Recipient) vesting.SplitConfig {
	return vesting.SplitConfig{Active: true, Recipients: recipients}
}

func sumShares(shares []vesting.Share) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}

func TestSplitConfigSplit(t *testing.T) {
	t.Parallel()

	t.Run("it pays a single recipient everything", func(t *testing.T) {
		t.Parallel()

		// Arrange
		cfg := activeConfig(recipient(admin, "2500000000000000000000"))

		// Act
		shares, err := cfg.Split(amount(rptAmount))

		// Assert
		require.NoError(t, err)
		require.Len(t, shares, 1)
		assert.Equal(t, admin, shares[0].Address)
		assertAmount(t, rptAmount, shares[0].Amount)
	})

	t.Run("it splits proportionally to weights", func(t *testing.T) {
		t.Parallel()

		// Arrange
		cfg := activeConfig(recipient(alice, "1"), recipient(bob, "3"))

		// Act
		shares, err := cfg.Split(amount("100"))

		// Assert
		require.NoError(t, err)
		assertAmount(t, "25", shares[0].Amount)
		assertAmount(t, "75", shares[1].Amount)
	})

	t.Run("it gives the remainder to the first recipient with a positive weight", func(t *testing.T) {
		t.Parallel()

		// Arrange
		cfg := activeConfig(recipient(admin, "0"), recipient(alice, "1"), recipient(bob, "1"), recipient(mallory, "1"))

		// Act
		shares, err := cfg.Split(amount("100"))

		// Assert
		require.NoError(t, err)
		assertAmount(t, "0", shares[0].Amount)
		assertAmount(t, "34", shares[1].Amount)
		assertAmount(t, "33", shares[2].Amount)
		assertAmount(t, "33", shares[3].Amount)
	})

	t.Run("it fails when weights add up to zero", func(t *testing.T) {
		t.Parallel()

		// Arrange
		cfg := vesting.SplitConfig{Recipients: []vesting.Recipient{recipient(alice, "0")}}

		// Act
		_, err := cfg.Split(amount("100"))

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
	})

	t.Run("it never leaks or creates tokens", func(t *testing.T) {
		t.Parallel()

		configs := []vesting.SplitConfig{
			activeConfig(recipient(alice, "1")),
			activeConfig(recipient(alice, "1"), recipient(bob, "2")),
			activeConfig(recipient(alice, "7"), recipient(bob, "11"), recipient(mallory, "13")),
			activeConfig(recipient(alice, "0"), recipient(bob, "340282366920938463463374607431768211455"), recipient(mallory, "1")),
		}
		amounts := []string{"0", "1", "2", "99", "1000003", rptAmount, "340282366920938463463374607431768211455"}

		for i, cfg := range configs {
			for _, a := range amounts {
				// Act
				shares, err := cfg.Split(amount(a))

				// Assert
				require.NoError(t, err)
				assertAmount(t, a, sumShares(shares), fmt.Sprintf("config %d, amount %s", i, a))
				for _, s := range shares {
					assert.False(t, s.Amount.IsNegative())
				}
			}
		}
	})
}

func TestSplitConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("it accepts an inactive config without weights", func(t *testing.T) {
		t.Parallel()

		// Act
		err := vesting.SplitConfig{}.Validate()

		// Assert
		require.NoError(t, err)
	})

	invalid := []struct {
		name   string
		config vesting.SplitConfig
	}{
		{name: "active config with zero weights", config: activeConfig(recipient(alice, "0"))},
		{name: "active config without recipients", config: activeConfig()},
		{name: "empty address", config: activeConfig(recipient(vesting.Placeholder, "1"))},
		{name: "duplicate address", config: activeConfig(recipient(alice, "1"), recipient(alice, "2"))},
		{name: "negative weight", config: activeConfig(recipient(alice, "2"), recipient(bob, "-1"))},
		{name: "missing weight", config: activeConfig(vesting.Recipient{Address: alice})},
	}

	for _, tc := range invalid {
		t.Run("it rejects "+tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			err := tc.config.Validate()

			// Assert
			assertErrorIs(t, err, vesting.ErrValidation)
		})
	}
}
