package billing

import "time"

// IsActive reports whether a plan expiring at expiry is active at now.
// The comparison is strict: a plan expiring exactly now is not active.
func IsActive(expiry, now time.Time) bool {
	return expiry.After(now)
}

// ExtendExpiry computes the new plan expiry after a successful recharge.
// The extension is applied from the stored expiry, or from now when the
// plan already lapsed, plus one grace day before the purchased months.
func ExtendExpiry(current, now time.Time, months int) time.Time {
	base := current
	if base.Before(now) {
		base = now
	}
	return base.AddDate(0, 0, 1).AddDate(0, months, 0)
}
