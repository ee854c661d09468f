package vesting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/vesting"
)

func TestManagerLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("it starts uninitialized", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := newManager(t)

		// Act
		status := m.Status()

		// Assert
		assert.Equal(t, vesting.StateUninitialized, status.State)
		assert.Equal(t, admin, status.Owner)
		assert.Equal(t, mgmt, status.Address)
		assert.Nil(t, status.LaunchedAt)
		_, err := m.Schedule()
		assertErrorIs(t, err, vesting.ErrNotFound)
	})

	t.Run("it becomes configured after configure", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(pool("P", immediate("A", alice, "10"))))

		// Act
		status := m.Status()

		// Assert
		assert.Equal(t, vesting.StateConfigured, status.State)
	})

	t.Run("it mints the supply on launch", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(pool("P", immediate("A", alice, "10"), immediate("B", bob, "5"))))

		// Act
		transfer, err := m.Launch(admin, launchTime)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, vesting.TransferMint, transfer.Kind)
		assert.Equal(t, mgmt, transfer.To)
		assert.Equal(t, vesting.Placeholder, transfer.From)
		assertAmount(t, "15", transfer.Amount)

		status := m.Status()
		assert.Equal(t, vesting.StateLaunched, status.State)
		require.NotNil(t, status.LaunchedAt)
		assert.Equal(t, launchTime, *status.LaunchedAt)
		assertAmount(t, "15", status.Minted)
	})

	t.Run("it refuses to launch twice", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", immediate("A", alice, "10"))))

		// Act
		_, err := m.Launch(admin, after(10))

		// Assert
		assertErrorIs(t, err, vesting.ErrConflict)
	})

	t.Run("it refuses to launch without a schedule", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := newManager(t)

		// Act
		_, err := m.Launch(admin, launchTime)

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
		assert.Equal(t, vesting.StateUninitialized, m.Status().State)
	})

	t.Run("it rejects claims and progress before launch", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(pool("P", immediate("A", alice, "10"))))

		// Act
		_, _, claimErr := m.Claim(alice, launchTime)
		_, progressErr := m.Progress(alice, launchTime)

		// Assert
		assertErrorIs(t, claimErr, vesting.ErrNotLaunched)
		assertErrorIs(t, progressErr, vesting.ErrNotLaunched)
	})

	t.Run("it survives a round trip through its persisted state", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", periodic("A", alice, "100", 10, 40))))
		_, _, err := m.Claim(alice, after(10))
		require.NoError(t, err)

		// Act
		restored, err := vesting.RestoreManager(m.State(), m.Ledger())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, m.Status(), restored.Status())
		assert.Equal(t, m.Ledger(), restored.Ledger())
		p, err := restored.Progress(alice, after(20))
		require.NoError(t, err)
		assertAmount(t, "25", p.Claimable)
	})
}

func TestManagerSchedule(t *testing.T) {
	t.Parallel()

	t.Run("it keeps the previous schedule when configure has duplicate account names", func(t *testing.T) {
		t.Parallel()

		// Arrange
		previous := schedule(pool("P", immediate("A", alice, "10")))
		m := configuredManager(t, previous)

		// Act
		err := m.Configure(admin, schedule(pool("P", immediate("A", alice, "10"), immediate("A", bob, "10"))))

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
		current, err := m.Schedule()
		require.NoError(t, err)
		assert.Equal(t, previous, current)
	})

	t.Run("it replaces the whole schedule", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(pool("P", immediate("A", alice, "10"))))
		next := schedule(pool("Q", immediate("B", bob, "20")))

		// Act
		err := m.Configure(admin, next)

		// Assert
		require.NoError(t, err)
		current, err := m.Schedule()
		require.NoError(t, err)
		assert.Equal(t, next, current)
		_, err = m.Account("P", "A")
		assertErrorIs(t, err, vesting.ErrNotFound)
	})

	t.Run("it adds an account to a partial pool", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(budgeted(pool("P", immediate("A", alice, "10")), "30", true)))

		// Act
		err := m.AddAccount(admin, "P", immediate("B", bob, "20"))

		// Assert
		require.NoError(t, err)
		a, err := m.Account("P", "B")
		require.NoError(t, err)
		assert.Equal(t, bob, a.Address)
	})

	t.Run("it keeps the schedule when adding to a missing pool", func(t *testing.T) {
		t.Parallel()

		// Arrange
		previous := schedule(pool("P", immediate("A", alice, "10")))
		m := configuredManager(t, previous)

		// Act
		err := m.AddAccount(admin, "Missing", immediate("B", bob, "20"))

		// Assert
		assertErrorIs(t, err, vesting.ErrNotFound)
		current, err := m.Schedule()
		require.NoError(t, err)
		assert.Equal(t, previous, current)
	})

	t.Run("it rejects adding an account under an existing name", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(pool("P", immediate("A", alice, "10"))))

		// Act
		err := m.AddAccount(admin, "P", immediate("A", bob, "20"))

		// Assert
		assertErrorIs(t, err, vesting.ErrConflict)
	})

	t.Run("it rejects adding an account beyond the pool budget", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, schedule(budgeted(pool("P", immediate("A", alice, "10")), "15", true)))

		// Act
		err := m.AddAccount(admin, "P", immediate("B", bob, "6"))

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
	})

	t.Run("it adds to a launched schedule within the minted supply", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(budgeted(pool("P", immediate("A", alice, "10")), "30", true)))

		// Act
		err := m.AddAccount(admin, "P", immediate("B", bob, "20"))

		// Assert
		require.NoError(t, err)
		p, err := m.Progress(bob, after(0))
		require.NoError(t, err)
		assertAmount(t, "20", p.Claimable)
	})

	t.Run("it rejects a launched schedule needing more than was minted", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", immediate("A", alice, "10"))))

		// Act
		err := m.AddAccount(admin, "P", immediate("B", bob, "1"))

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
	})

	t.Run("it rejects a launched schedule taking back claimed tokens", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", immediate("A", alice, "10"), immediate("B", bob, "10"))))
		_, _, err := m.Claim(alice, after(0))
		require.NoError(t, err)

		// Act
		err = m.Configure(admin, schedule(pool("P", immediate("A", alice, "5"), immediate("B", bob, "15"))))

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
	})
}

func TestManagerRebindAccountAddress(t *testing.T) {
	t.Parallel()

	t.Run("it binds a placeholder account once", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, mintingPoolSchedule(vesting.Placeholder))

		// Act
		err := m.RebindAccountAddress(admin, "MintingPool", "RPT", rpt)

		// Assert
		require.NoError(t, err)
		a, err := m.Account("MintingPool", "RPT")
		require.NoError(t, err)
		assert.Equal(t, rpt, a.Address)
	})

	t.Run("it refuses to rebind a real address", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, mintingPoolSchedule(rpt))

		// Act
		err := m.RebindAccountAddress(admin, "MintingPool", "RPT", mallory)

		// Assert
		assertErrorIs(t, err, vesting.ErrConflict)
		a, err := m.Account("MintingPool", "RPT")
		require.NoError(t, err)
		assert.Equal(t, rpt, a.Address)
	})

	t.Run("it rejects an empty address", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, mintingPoolSchedule(vesting.Placeholder))

		// Act
		err := m.RebindAccountAddress(admin, "MintingPool", "RPT", vesting.Placeholder)

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
	})

	t.Run("it reports unknown accounts", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, mintingPoolSchedule(vesting.Placeholder))

		// Act
		poolErr := m.RebindAccountAddress(admin, "Missing", "RPT", rpt)
		accountErr := m.RebindAccountAddress(admin, "MintingPool", "Missing", rpt)

		// Assert
		assertErrorIs(t, poolErr, vesting.ErrNotFound)
		assertErrorIs(t, accountErr, vesting.ErrNotFound)
	})
}

func TestManagerClaim(t *testing.T) {
	t.Parallel()

	t.Run("it pays out what unlocked", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", periodic("A", alice, "100", 10, 40))))

		// Act
		transfer, rec, err := m.Claim(alice, after(10))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, vesting.TransferClaim, transfer.Kind)
		assert.Equal(t, mgmt, transfer.From)
		assert.Equal(t, alice, transfer.To)
		assertAmount(t, "50", transfer.Amount)
		assertAmount(t, "50", rec.Claimed)
		assert.Equal(t, after(10), rec.LastClaimAt)
	})

	t.Run("it pays nothing twice at the same time", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", periodic("A", alice, "100", 10, 40))))
		_, _, err := m.Claim(alice, after(10))
		require.NoError(t, err)

		// Act
		_, _, err = m.Claim(alice, after(10))

		// Assert
		assertErrorIs(t, err, vesting.ErrNothingToClaim)
		assertAmount(t, "50", m.Ledger().Claimed(alice))
	})

	t.Run("it pays only the difference on later claims", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", periodic("A", alice, "100", 10, 40))))
		_, _, err := m.Claim(alice, after(0))
		require.NoError(t, err)

		// Act
		transfer, rec, err := m.Claim(alice, after(25))

		// Assert
		require.NoError(t, err)
		assertAmount(t, "50", transfer.Amount)
		assertAmount(t, "75", rec.Claimed)
	})

	t.Run("it sums up all accounts of an address", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(
			pool("P", immediate("A", alice, "10")),
			pool("Q", startingAt(immediate("B", alice, "5"), 100), immediate("C", bob, "1")),
		))

		// Act
		early, err := m.Progress(alice, after(99))
		require.NoError(t, err)
		late, err := m.Progress(alice, after(100))
		require.NoError(t, err)

		// Assert
		assertAmount(t, "10", early.Claimable)
		assertAmount(t, "15", late.Claimable)
	})

	t.Run("it rejects addresses without accounts", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", immediate("A", alice, "10"))))

		// Act
		_, _, err := m.Claim(mallory, after(10))

		// Assert
		assertErrorIs(t, err, vesting.ErrNothingToClaim)
	})

	t.Run("it never pays more than the allocation", func(t *testing.T) {
		t.Parallel()

		// Arrange
		a := withCliff(periodic("A", alice, "1001", 7, 70), "100")
		m := launchedManager(t, schedule(pool("P", a)))

		for elapsed := vesting.Seconds(0); elapsed <= 100; elapsed += 3 {
			// Act
			_, _, err := m.Claim(alice, after(elapsed))
			if err != nil {
				assertErrorIs(t, err, vesting.ErrNothingToClaim)
			}

			// Assert
			assert.True(t, m.Ledger().Claimed(alice).LTE(a.Amount))
		}
		assertAmount(t, "1001", m.Ledger().Claimed(alice))
	})

	t.Run("it keeps progress pure", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := launchedManager(t, schedule(pool("P", periodic("A", alice, "100", 10, 40))))

		// Act
		future, err := m.Progress(alice, after(1000))
		require.NoError(t, err)
		past, err := m.Progress(alice, launchTime.Add(-time.Hour))

		// Assert
		require.NoError(t, err)
		assertAmount(t, "100", future.Claimable)
		assertAmount(t, "0", past.Claimable)
		assertAmount(t, "0", m.Ledger().Claimed(alice))
	})
}

func TestManagerAuthorization(t *testing.T) {
	t.Parallel()

	mutations := map[string]func(m *vesting.Manager) error{
		"configure": func(m *vesting.Manager) error {
			return m.Configure(mallory, schedule(pool("P", immediate("A", mallory, "10"))))
		},
		"add account": func(m *vesting.Manager) error {
			return m.AddAccount(mallory, "MintingPool", immediate("M", mallory, "1"))
		},
		"rebind": func(m *vesting.Manager) error {
			return m.RebindAccountAddress(mallory, "MintingPool", "RPT", mallory)
		},
		"set owner": func(m *vesting.Manager) error {
			return m.SetOwner(mallory, mallory)
		},
		"disown": func(m *vesting.Manager) error {
			return m.Disown(mallory)
		},
		"launch": func(m *vesting.Manager) error {
			_, err := m.Launch(mallory, launchTime)
			return err
		},
	}

	for name, mutate := range mutations {
		t.Run("it rejects "+name+" by a stranger", func(t *testing.T) {
			t.Parallel()

			// Arrange
			m := configuredManager(t, mintingPoolSchedule(vesting.Placeholder))
			before := m.State()

			// Act
			err := mutate(m)

			// Assert
			assertErrorIs(t, err, vesting.ErrUnauthorized)
			assert.Equal(t, before, m.State())
		})
	}

	t.Run("it hands over ownership", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := newManager(t)

		// Act
		err := m.SetOwner(admin, alice)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, alice, m.Status().Owner)
		assertErrorIs(t, m.SetOwner(admin, admin), vesting.ErrUnauthorized)
		require.NoError(t, m.SetOwner(alice, bob))
	})

	t.Run("it rejects an empty new owner", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := newManager(t)

		// Act
		err := m.SetOwner(admin, vesting.Placeholder)

		// Assert
		assertErrorIs(t, err, vesting.ErrValidation)
		assert.Equal(t, admin, m.Status().Owner)
	})

	t.Run("it locks everybody out after disown", func(t *testing.T) {
		t.Parallel()

		// Arrange
		m := configuredManager(t, mintingPoolSchedule(rpt))

		// Act
		err := m.Disown(admin)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, vesting.Placeholder, m.Status().Owner)
		_, err = m.Launch(admin, launchTime)
		assertErrorIs(t, err, vesting.ErrUnauthorized)
		_, err = m.Launch(vesting.Placeholder, launchTime)
		assertErrorIs(t, err, vesting.ErrUnauthorized)
	})
}
