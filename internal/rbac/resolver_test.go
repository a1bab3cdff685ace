package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveUnionsBaseAndAdds(t *testing.T) {
	got := Resolve(
		[]string{FeatureDashboard, FeatureViewProducts},
		Overrides{Adds: []string{FeatureManageBrands}},
		true,
	)
	require.Equal(t, []string{FeatureDashboard, FeatureManageBrands, FeatureViewProducts}, got)
}

func TestResolveRemovalAlwaysWins(t *testing.T) {
	// A key present in both adds and removes ends up removed.
	got := Resolve(
		[]string{FeatureDashboard},
		Overrides{
			Adds:    []string{FeatureManageBrands},
			Removes: []string{FeatureManageBrands, FeatureDashboard},
		},
		true,
	)
	require.Empty(t, got)
}

func TestResolveRemovesBaseFeature(t *testing.T) {
	got := Resolve(
		[]string{FeatureDashboard, FeatureViewProducts},
		Overrides{Removes: []string{FeatureViewProducts}},
		true,
	)
	require.Equal(t, []string{FeatureDashboard}, got)
}

func TestResolveUnknownRoleYieldsEmptySet(t *testing.T) {
	got := Resolve(nil, Overrides{}, true)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestResolveDeduplicates(t *testing.T) {
	got := Resolve(
		[]string{FeatureDashboard, FeatureDashboard},
		Overrides{Adds: []string{FeatureDashboard}},
		true,
	)
	require.Equal(t, []string{FeatureDashboard}, got)
}

func TestResolveInactivePlanReplacesEverything(t *testing.T) {
	got := Resolve(
		[]string{FeatureManagePerms, FeatureManageUsers, FeatureViewProducts},
		Overrides{Adds: []string{FeatureManageBrands}},
		false,
	)
	require.Equal(t, []string{FeatureDashboard, FeatureRecharge, FeatureViewBilling}, got)
}

func TestResolveInactivePlanIgnoresRemoves(t *testing.T) {
	// Even a remove override targeting the billing escape hatch cannot
	// shrink the expired-plan set.
	got := Resolve(
		[]string{FeatureDashboard},
		Overrides{Removes: []string{FeatureRecharge, FeatureViewBilling}},
		false,
	)
	require.Equal(t, []string{FeatureDashboard, FeatureRecharge, FeatureViewBilling}, got)
}

func TestResolveDoesNotAliasExpiredPlanFeatures(t *testing.T) {
	got := Resolve(nil, Overrides{}, false)
	got[0] = "MUTATED"
	require.Contains(t, ExpiredPlanFeatures, FeatureDashboard)
}
