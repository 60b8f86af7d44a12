package habit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogHasExactlyOneRestRole(t *testing.T) {
	restCount := 0
	seen := map[string]bool{}
	for _, a := range Activities() {
		require.False(t, seen[a.ID], "duplicate activity id %s", a.ID)
		seen[a.ID] = true
		if a.RestRole {
			restCount++
		}
	}
	require.Equal(t, 1, restCount)
	require.Equal(t, "RestDay", RestActivityID())
}

func TestNewDayRecordAllFalse(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	require.Equal(t, "2024-03-15", rec.Date)
	require.Len(t, rec.Flags, len(Activities()))
	for id, v := range rec.Flags {
		require.False(t, v, "flag %s should default false", id)
	}
}

func TestToggleRestClearsEverything(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	rec.Flags["UpperBody"] = true
	rec.Flags["Sauna"] = true
	rec.Flags["Walk"] = true

	got, err := ApplyToggle(rec, "RestDay")
	require.NoError(t, err)

	for id, v := range got.Flags {
		if id == "RestDay" {
			require.True(t, v)
		} else {
			require.False(t, v, "flag %s must be cleared by rest day", id)
		}
	}

	// input untouched
	require.True(t, rec.Flags["UpperBody"])
	require.False(t, rec.Flags["RestDay"])
}

func TestToggleNonRestDisplacesRest(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	rec.Flags["RestDay"] = true

	got, err := ApplyToggle(rec, "Zone2")
	require.NoError(t, err)
	require.False(t, got.Flags["RestDay"])
	require.True(t, got.Flags["Zone2"])
	for id, v := range got.Flags {
		if id != "Zone2" {
			require.False(t, v, "flag %s", id)
		}
	}
}

func TestToggleOffLeavesOthersAlone(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	rec.Flags["UpperBody"] = true
	rec.Flags["Sauna"] = true

	got, err := ApplyToggle(rec, "Sauna")
	require.NoError(t, err)
	require.False(t, got.Flags["Sauna"])
	require.True(t, got.Flags["UpperBody"])
}

func TestToggleRestOffRestoresNothing(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	rec.Flags["UpperBody"] = true

	rested, err := ApplyToggle(rec, "RestDay")
	require.NoError(t, err)

	got, err := ApplyToggle(rested, "RestDay")
	require.NoError(t, err)
	for id, v := range got.Flags {
		require.False(t, v, "flag %s: no history is kept", id)
	}
}

func TestToggleTwiceIsIdentityWithoutRestDisplacement(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	rec.Flags["Walk"] = true

	once, err := ApplyToggle(rec, "ColdPlunge")
	require.NoError(t, err)
	twice, err := ApplyToggle(once, "ColdPlunge")
	require.NoError(t, err)
	require.Equal(t, rec.Flags, twice.Flags)
}

func TestToggleUnknownActivity(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	_, err := ApplyToggle(rec, "Yoga")
	require.ErrorIs(t, err, ErrUnknownActivity)
}

func TestHasNonRestActivity(t *testing.T) {
	rec := NewDayRecord("2024-03-15")
	require.False(t, rec.HasNonRestActivity())

	rec.Flags["RestDay"] = true
	require.False(t, rec.HasNonRestActivity())

	rec.Flags["Walk"] = true
	require.True(t, rec.HasNonRestActivity())
}
