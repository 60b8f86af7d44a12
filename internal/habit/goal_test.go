package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultGoalsZeroForEveryActivity(t *testing.T) {
	g := DefaultGoals()
	require.Len(t, g, len(Activities()))
	for id, target := range g {
		require.Zero(t, target, "goal %s", id)
	}
}

func TestSetWeeklyTarget(t *testing.T) {
	g := DefaultGoals()

	got, err := SetWeeklyTarget(g, "Sauna", 4)
	require.NoError(t, err)
	require.Equal(t, 4, got.Target("Sauna"))
	require.Zero(t, g.Target("Sauna"), "input goals must not be modified")

	// no upper clamp
	got, err = SetWeeklyTarget(g, "Walk", 100)
	require.NoError(t, err)
	require.Equal(t, 100, got.Target("Walk"))

	_, err = SetWeeklyTarget(g, "Sauna", -1)
	require.ErrorIs(t, err, ErrNegativeTarget)

	_, err = SetWeeklyTarget(g, "Pilates", 2)
	require.ErrorIs(t, err, ErrUnknownActivity)
}

func TestIncrementDecrementWeeklyTarget(t *testing.T) {
	g := DefaultGoals()

	g, err := IncrementWeeklyTarget(g, "Zone2")
	require.NoError(t, err)
	g, err = IncrementWeeklyTarget(g, "Zone2")
	require.NoError(t, err)
	require.Equal(t, 2, g.Target("Zone2"))

	g, err = DecrementWeeklyTarget(g, "Zone2")
	require.NoError(t, err)
	require.Equal(t, 1, g.Target("Zone2"))

	// decrement from zero floors silently
	g, err = DecrementWeeklyTarget(g, "Walk")
	require.NoError(t, err)
	require.Zero(t, g.Target("Walk"))
}

func TestDaysInMonth(t *testing.T) {
	require.Equal(t, 29, DaysInMonth(2024, time.February))
	require.Equal(t, 28, DaysInMonth(2023, time.February))
	require.Equal(t, 28, DaysInMonth(1900, time.February)) // century, not leap
	require.Equal(t, 29, DaysInMonth(2000, time.February)) // 400-year rule
	require.Equal(t, 31, DaysInMonth(2024, time.January))
	require.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestMonthlyDerivedTarget(t *testing.T) {
	// 7/week over a 29-day February is exactly 29.
	require.Equal(t, 29, MonthlyDerivedTarget(7, 2024, time.February))
	// 3/week over a 28-day February: round(3*28/7) = 12.
	require.Equal(t, 12, MonthlyDerivedTarget(3, 2023, time.February))
	// round() half up: 3*31/7 = 13.28... -> 13; 5*31/7 = 22.14 -> 22.
	require.Equal(t, 13, MonthlyDerivedTarget(3, 2024, time.March))
	require.Equal(t, 22, MonthlyDerivedTarget(5, 2024, time.March))
	require.Zero(t, MonthlyDerivedTarget(0, 2024, time.March))
}
