package rbac

import "sort"

// Resolve computes the effective feature set for a principal.
//
// Order matters: the base set is unioned with the override adds first, and
// the override removes are subtracted last, so a key present in both adds
// and removes ends up removed. When the tenant plan is not active the whole
// computed set is discarded and replaced with ExpiredPlanFeatures,
// regardless of role or overrides.
//
// The result is sorted and duplicate-free. An unknown role simply yields an
// empty base set, not an error.
func Resolve(base []string, ov Overrides, planActive bool) []string {
	if !planActive {
		out := make([]string, len(ExpiredPlanFeatures))
		copy(out, ExpiredPlanFeatures)
		sort.Strings(out)
		return out
	}

	set := make(map[string]struct{}, len(base)+len(ov.Adds))
	for _, f := range base {
		if f != "" {
			set[f] = struct{}{}
		}
	}
	for _, f := range ov.Adds {
		if f != "" {
			set[f] = struct{}{}
		}
	}
	for _, f := range ov.Removes {
		delete(set, f)
	}

	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
