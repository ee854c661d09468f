package pgxstore

import (
	"context"
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screwyprof/vesting/service"
	"github.com/screwyprof/vesting/service/store/dbrow"
	"github.com/screwyprof/vesting/vesting"
)

// Sentinel errors for store operations
var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrLockFailed        = errors.New("failed to lock deployment")
	ErrQueryFailed       = errors.New("query failed")
	ErrWriteFailed       = errors.New("write operation failed")
)

// deploymentLockKey serializes every unit of work on the deployment.
const deploymentLockKey = int64(0x76657374) // "vest"

// SQL queries
const (
	lockSQL = `SELECT pg_advisory_xact_lock($1)`

	loadManagerSQL = `
		SELECT address, owner, launched_at, minted::text AS minted, schedule
		FROM manager_state`

	saveManagerSQL = `
		INSERT INTO manager_state (single_row, address, owner, launched_at, minted, schedule)
		VALUES (TRUE, $1, $2, $3, $4::numeric, $5::jsonb)
		ON CONFLICT (single_row) DO UPDATE SET
			address = EXCLUDED.address,
			owner = EXCLUDED.owner,
			launched_at = EXCLUDED.launched_at,
			minted = EXCLUDED.minted,
			schedule = EXCLUDED.schedule,
			updated_at = CURRENT_TIMESTAMP`

	loadClaimsSQL = `SELECT address, claimed::text AS claimed, last_claim_at FROM claims`

	saveClaimSQL = `
		INSERT INTO claims (address, claimed, last_claim_at)
		VALUES ($1, $2::numeric, $3)
		ON CONFLICT (address) DO UPDATE SET
			claimed = EXCLUDED.claimed,
			last_claim_at = EXCLUDED.last_claim_at`

	loadSplitterSQL = `
		SELECT address, owner, pool_name, account_name, config
		FROM splitter_state`

	saveSplitterSQL = `
		INSERT INTO splitter_state (single_row, address, owner, pool_name, account_name, config)
		VALUES (TRUE, $1, $2, $3, $4, $5::jsonb)
		ON CONFLICT (single_row) DO UPDATE SET
			address = EXCLUDED.address,
			owner = EXCLUDED.owner,
			pool_name = EXCLUDED.pool_name,
			account_name = EXCLUDED.account_name,
			config = EXCLUDED.config,
			updated_at = CURRENT_TIMESTAMP`

	debitSQL = `
		UPDATE balances SET amount = amount - $2::numeric
		WHERE address = $1 AND amount >= $2::numeric`

	creditSQL = `
		INSERT INTO balances (address, amount) VALUES ($1, $2::numeric)
		ON CONFLICT (address) DO UPDATE SET amount = balances.amount + EXCLUDED.amount`

	journalSQL = `
		INSERT INTO transfers (id, kind, from_address, to_address, amount, at)
		VALUES ($1::uuid, $2, $3, $4, $5::numeric, $6)`

	balanceSQL = `SELECT amount::text FROM balances WHERE address = $1`

	transfersSQL = `
		SELECT id::text AS id, kind, from_address, to_address, amount::text AS amount, at
		FROM transfers
		ORDER BY seq`
)

// Store implements service.Store interface using pgx
type Store struct {
	pool *pgxpool.Pool
}

var _ service.Store = (*Store)(nil)

// New creates a new PostgreSQL store with an existing connection pool
// Returns the store and a closer function
func New(pool *pgxpool.Pool) (*Store, func()) {
	store := &Store{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

// View runs fn in a read-only repeatable-read transaction, so it sees a
// single committed state.
func (s *Store) View(ctx context.Context, fn func(service.Tx) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, false, fn)
}

// Update runs fn in a transaction holding the deployment lock.
func (s *Store) Update(ctx context.Context, fn func(service.Tx) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, true, fn)
}

func (s *Store) run(ctx context.Context, opts pgx.TxOptions, lock bool, fn func(service.Tx) error) error {
	dbtx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	defer func() { _ = dbtx.Rollback(ctx) }() // No-op if commit succeeds

	if lock {
		if _, err := dbtx.Exec(ctx, lockSQL, deploymentLockKey); err != nil {
			return fmt.Errorf("%w: %w", ErrLockFailed, err)
		}
	}

	if err := fn(&tx{tx: dbtx}); err != nil {
		return err
	}

	if err := dbtx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	return nil
}

// Transfers returns the journal of committed transfers, oldest first.
func (s *Store) Transfers(ctx context.Context) ([]vesting.Transfer, error) {
	rows, err := s.pool.Query(ctx, transfersSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbrow.Transfer])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	transfers := make([]vesting.Transfer, len(records))
	for i, r := range records {
		if transfers[i], err = r.Transfer(); err != nil {
			return nil, err
		}
	}
	return transfers, nil
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) LoadManager(ctx context.Context) (vesting.ManagerState, error) {
	rows, err := t.tx.Query(ctx, loadManagerSQL)
	if err != nil {
		return vesting.ManagerState{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbrow.Manager])
	if errors.Is(err, pgx.ErrNoRows) {
		return vesting.ManagerState{}, service.ErrNotInstantiated
	}
	if err != nil {
		return vesting.ManagerState{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return row.State()
}

func (t *tx) SaveManager(ctx context.Context, state vesting.ManagerState) error {
	row, err := dbrow.NewManager(state)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, saveManagerSQL, row.Address, row.Owner, row.LaunchedAt, row.Minted, row.Schedule)
	if err != nil {
		return fmt.Errorf("%w: manager: %w", ErrWriteFailed, err)
	}
	return nil
}

func (t *tx) LoadClaims(ctx context.Context) (vesting.Ledger, error) {
	rows, err := t.tx.Query(ctx, loadClaimsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbrow.Claim])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return dbrow.Ledger(records)
}

func (t *tx) SaveClaim(ctx context.Context, addr vesting.Address, rec vesting.ClaimRecord) error {
	row := dbrow.NewClaim(addr, rec)
	if _, err := t.tx.Exec(ctx, saveClaimSQL, row.Address, row.Claimed, row.LastClaimAt); err != nil {
		return fmt.Errorf("%w: claim: %w", ErrWriteFailed, err)
	}
	return nil
}

func (t *tx) LoadSplitter(ctx context.Context) (vesting.SplitterState, error) {
	rows, err := t.tx.Query(ctx, loadSplitterSQL)
	if err != nil {
		return vesting.SplitterState{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[dbrow.Splitter])
	if errors.Is(err, pgx.ErrNoRows) {
		return vesting.SplitterState{}, service.ErrNotInstantiated
	}
	if err != nil {
		return vesting.SplitterState{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return row.State()
}

func (t *tx) SaveSplitter(ctx context.Context, state vesting.SplitterState) error {
	row, err := dbrow.NewSplitter(state)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(ctx, saveSplitterSQL, row.Address, row.Owner, row.PoolName, row.AccountName, row.Config)
	if err != nil {
		return fmt.Errorf("%w: splitter: %w", ErrWriteFailed, err)
	}
	return nil
}

func (t *tx) ApplyTransfer(ctx context.Context, transfer vesting.Transfer) error {
	row := dbrow.NewTransfer(transfer)

	if transfer.Kind != vesting.TransferMint {
		tag, err := t.tx.Exec(ctx, debitSQL, row.FromAddress, row.Amount)
		if err != nil {
			return fmt.Errorf("%w: debit: %w", ErrWriteFailed, err)
		}
		if tag.RowsAffected() == 0 {
			from, err := t.Balance(ctx, transfer.From)
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: %s has %s, needs %s", service.ErrInsufficientFunds, transfer.From, from, transfer.Amount)
		}
	}

	if _, err := t.tx.Exec(ctx, creditSQL, row.ToAddress, row.Amount); err != nil {
		return fmt.Errorf("%w: credit: %w", ErrWriteFailed, err)
	}

	_, err := t.tx.Exec(ctx, journalSQL, row.ID, row.Kind, row.FromAddress, row.ToAddress, row.Amount, row.At)
	if err != nil {
		return fmt.Errorf("%w: journal: %w", ErrWriteFailed, err)
	}
	return nil
}

func (t *tx) Balance(ctx context.Context, addr vesting.Address) (sdkmath.Int, error) {
	var amount string
	err := t.tx.QueryRow(ctx, balanceSQL, addr.String()).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return sdkmath.ZeroInt(), nil
	}
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return dbrow.ParseAmount(amount)
}
