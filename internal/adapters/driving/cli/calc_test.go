package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/changegear/internal/core/domain"
)

// smallSearch is a two-shaft search over three shared gears: six trains,
// none of which interfere.
var smallSearch = []string{
	"calc", "--shafts", "2", "--gears", "20,30,40", "--shared",
	"--target", "1", "--module", "1", "--addendum", "0",
}

func calcArgs(extra ...string) []string {
	return append(append([]string{}, smallSearch...), extra...)
}

func TestCalcCmd_Use(t *testing.T) {
	assert.Equal(t, "calc", calcCmd.Use)
}

func TestCalcCmd_HasFlags(t *testing.T) {
	for _, name := range []string{
		"shafts", "gears", "input-gears", "shared", "target", "module", "addendum",
		"spacer", "input-spacer", "min-distance", "max-distance",
		"bookmark", "limit", "json", "no-save",
	} {
		assert.NotNil(t, calcCmd.Flags().Lookup(name), "flag %s should exist", name)
	}

	flag := calcCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
}

func TestCalcCmd_PrintsRankedTable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, calcArgs("--no-save")...)

	require.NoError(t, err)
	assert.Contains(t, out, "Searched 6 candidates")
	assert.Contains(t, out, "6 found, 0 skipped, 0 discarded")
	assert.Contains(t, out, "30 > 40")
	assert.Contains(t, out, "3:4")
	assert.Contains(t, out, "Bookmark: ")
	assert.Contains(t, out, "gears=20,30,40")
}

func TestCalcCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, calcArgs("--no-save", "--json")...)
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, uint64(6), result.Found)
	assert.Equal(t, uint64(6), result.Total)
	require.Len(t, result.Trains, 6)
	assert.Equal(t, 1, result.Trains[0].Rank)
	assert.Equal(t, "30 > 40", result.Trains[0].Train)
	assert.InDelta(t, 0.25, result.Trains[0].Deviation, 1e-12)
	assert.NotEmpty(t, result.ID)
}

func TestCalcCmd_Limit(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, calcArgs("--no-save", "--json", "--limit", "2")...)
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Trains, 2)
	assert.Equal(t, uint64(6), result.Found)
}

func TestCalcCmd_SavesToHistory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, smallSearch...)
	require.NoError(t, err)

	calcs, err := historyService.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, calcs, 1)
	assert.Equal(t, uint64(6), calcs[0].Progress.Found)
}

func TestCalcCmd_NoSave(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, calcArgs("--no-save")...)
	require.NoError(t, err)

	calcs, err := historyService.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, calcs)
}

func TestCalcCmd_HistoryDisabledInSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set("history.enabled", "false"))

	_, err := executeCommand(t, smallSearch...)
	require.NoError(t, err)

	calcs, err := historyService.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, calcs)
}

func TestCalcCmd_Bookmark(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	bm := "shafts=2&gears=20,30,40&shared=1&target=1&module=1&addendum=0"
	out, err := executeCommand(t, "calc", "--no-save", "--json", "--bookmark", bm)
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, uint64(6), result.Found)
	assert.Equal(t, 2, result.Params.ShaftCount)
}

func TestCalcCmd_FlagsOverrideBookmark(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	bm := "shafts=2&gears=20,30,40&shared=1&target=1&module=1&addendum=0"
	out, err := executeCommand(t, "calc", "--no-save", "--json", "--bookmark", bm, "--target", "1.5")
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Trains)
	assert.Equal(t, "30 > 20", result.Trains[0].Train)
	assert.InDelta(t, 0, result.Trains[0].Deviation, 1e-12)
}

func TestCalcCmd_DefaultsFromSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settingsService.Set("calculator.shaft_count", "2"))
	require.NoError(t, settingsService.Set("calculator.change_gears", "20,30,40"))
	require.NoError(t, settingsService.Set("calculator.addendum", "0"))

	out, err := executeCommand(t, "calc", "--no-save", "--json")
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, uint64(6), result.Total)
}

func TestCalcCmd_InvalidBookmark(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "calc", "--bookmark", "shafts=two")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bookmark")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalcCmd_InvalidGearList(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "calc", "--gears", "20,x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--gears")
}

func TestCalcCmd_InvalidParams(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, calcArgs("--shafts", "1")...)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidParams)
}

func TestCalcCmd_SharedAndInputGearsExclusive(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, calcArgs("--input-gears", "20,30")...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "input-gears")
}

func TestCalcCmd_InputGearsClearShared(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t,
		"calc", "--shafts", "2", "--gears", "20,30", "--input-gears", "40",
		"--target", "1", "--module", "1", "--addendum", "0", "--no-save", "--json")
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Params.SharedInputGears)
	assert.Equal(t, uint64(2), result.Found)
}

func TestCalcCmd_ServiceNotConfigured(t *testing.T) {
	oldService := calculatorService
	calculatorService = nil
	defer func() {
		calculatorService = oldService
	}()

	_, err := executeCommand(t, "calc")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "calculator service not configured")
}

func TestDriveRun_Complete(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	run, err := calculatorService.NewRun(domain.CalculationParams{
		ShaftCount:       2,
		ChangeGears:      []int{20, 30, 40},
		SharedInputGears: true,
		TargetMultiplier: 1,
		Module:           1,
	})
	require.NoError(t, err)

	calc, complete, err := driveRun(context.Background(), run, time.Second, new(bytes.Buffer))

	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, uint64(6), calc.Progress.Found)
}

func TestDriveRun_CancelledReturnsPartialResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	run, err := calculatorService.NewRun(domain.CalculationParams{
		ShaftCount:       5,
		ChangeGears:      []int{20, 25, 30, 35, 40, 45, 50, 55, 60, 65},
		SharedInputGears: true,
		TargetMultiplier: 1,
		Module:           1,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	calc, complete, err := driveRun(ctx, run, 0, buf)

	require.NoError(t, err)
	assert.False(t, complete)
	assert.Less(t, calc.Progress.Processed(), calc.Progress.Total)
	assert.Empty(t, buf.String(), "no progress line on a non-terminal writer")
}

func TestDrawProgress(t *testing.T) {
	buf := new(bytes.Buffer)

	drawProgress(buf, domain.Progress{Found: 1, Skipped: 2, Discarded: 1, Total: 8})

	assert.Contains(t, buf.String(), "50.0%")
	assert.Contains(t, buf.String(), "found 1")
	assert.Contains(t, buf.String(), "skipped 2")
	assert.Contains(t, buf.String(), "discarded 1")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}
