package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsActiveStrictComparison(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	require.True(t, IsActive(now.Add(time.Second), now))
	require.False(t, IsActive(now, now), "expiry equal to now means expired")
	require.False(t, IsActive(now.Add(-time.Second), now))
}

func TestExtendExpiryActivePlanStacksOnCurrent(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	current := now.AddDate(0, 0, 10)

	got := ExtendExpiry(current, now, 3)

	// One grace day, then three months, on top of the unexpired balance.
	require.Equal(t, current.AddDate(0, 0, 1).AddDate(0, 3, 0), got)
}

func TestExtendExpiryExpiredPlanStartsFromNow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	current := now.AddDate(0, -2, 0)

	got := ExtendExpiry(current, now, 1)

	require.Equal(t, now.AddDate(0, 0, 1).AddDate(0, 1, 0), got)
}

func TestExtendExpiryZeroValueExpiry(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := ExtendExpiry(time.Time{}, now, 12)

	require.Equal(t, now.AddDate(0, 0, 1).AddDate(0, 12, 0), got)
}
