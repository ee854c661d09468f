package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/vesting/cmd/vestctl/config"
	"github.com/screwyprof/vesting/pkg/clock"
	"github.com/screwyprof/vesting/service"
	"github.com/screwyprof/vesting/service/store/memstore"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
	"github.com/screwyprof/vesting/web/handler"
)

const mintingPool = `
total: "2500000000000000000000"
pools:
  - name: MintingPool
    total: "2500000000000000000000"
    accounts:
      - name: RPT
        address: ""
        amount: "2500000000000000000000"
        interval: 86400
        duration: 86400
`

const rptSplit = `{"active": true, "recipients": [{"address": "secret1admin", "weight": "1"}]}`

var launchTime = time.Date(2021, time.September, 1, 12, 0, 0, 0, time.UTC)

func TestDeployCommand(t *testing.T) {
	t.Parallel()

	t.Run("it launches the deployment and vests the RPT account", func(t *testing.T) {
		t.Parallel()

		// Arrange
		apiURL := apiServer(t).URL
		dir := t.TempDir()
		scheduleFile := writeFile(t, dir, "schedule.yaml", mintingPool)
		splitFile := writeFile(t, dir, "split.json", rptSplit)

		// Act
		out, err := execute(t, "--api", apiURL, "--sender", "secret1admin", "deploy", "--schedule", scheduleFile, "--split", splitFile)
		require.NoError(t, err)
		balanceOut, err := execute(t, "--api", apiURL, "balance", "secret1admin")
		require.NoError(t, err)

		// Assert
		var result deployResult
		require.NoError(t, json.Unmarshal(out, &result))
		assert.Equal(t, vesting.StateLaunched, result.Status.State)
		require.NotNil(t, result.Vest)
		assert.Equal(t, "2500000000000000000000", result.Vest.Amount.String())

		var balance api.BalanceResponse
		require.NoError(t, json.Unmarshal(balanceOut, &balance))
		assert.Equal(t, "2500000000000000000000", balance.Amount.String())
	})

	t.Run("it requires the document flags", func(t *testing.T) {
		t.Parallel()

		// Act
		_, err := execute(t, "--api", apiServer(t).URL, "deploy")

		// Assert
		assert.ErrorContains(t, err, "required flag")
	})
}

func TestCommands(t *testing.T) {
	t.Parallel()

	t.Run("it configures and reads the schedule", func(t *testing.T) {
		t.Parallel()

		// Arrange
		apiURL := apiServer(t).URL
		scheduleFile := writeFile(t, t.TempDir(), "schedule.yaml", mintingPool)

		// Act
		_, err := execute(t, "--api", apiURL, "--sender", "secret1admin", "configure", scheduleFile)
		require.NoError(t, err)
		out, err := execute(t, "--api", apiURL, "account", "MintingPool", "RPT")
		require.NoError(t, err)

		// Assert
		var account api.AccountResponse
		require.NoError(t, json.Unmarshal(out, &account))
		assert.Equal(t, "2500000000000000000000", account.Amount.String())
		assert.True(t, account.Address.IsPlaceholder())
	})

	t.Run("it returns vesting errors", func(t *testing.T) {
		t.Parallel()

		// Act
		_, err := execute(t, "--api", apiServer(t).URL, "--sender", "secret1alice", "claim")

		// Assert
		assert.ErrorIs(t, err, vesting.ErrNotLaunched)
	})

	t.Run("it rejects a malformed progress time", func(t *testing.T) {
		t.Parallel()

		// Act
		_, err := execute(t, "--api", apiServer(t).URL, "progress", "secret1alice", "--time", "soon")

		// Assert
		assert.Error(t, err)
	})
}

// Test setup helpers

func execute(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(config.Config{HTTPTimeout: 5 * time.Second}, slog.New(slog.DiscardHandler))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return out.Bytes(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func apiServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := service.New(memstore.New(),
		service.WithClock(clock.Fixed(launchTime)),
		service.WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, svc.Instantiate(t.Context(), service.Deployment{
		Owner:    "secret1admin",
		Manager:  "secret1mgmt",
		Splitter: "secret1rpt",
		Pool:     "MintingPool",
		Account:  "RPT",
	}))

	mux := http.NewServeMux()
	handler.NewMgmt(svc).AddRoutes(mux)
	handler.NewRpt(svc).AddRoutes(mux)
	handler.NewBalances(svc).AddRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
