package rbac

import "time"

// Feature keys gate a single action or view. The catalog is seeded
// administratively and treated as immutable at runtime.
const (
	FeatureDashboard        = "DASHBOARD"
	FeatureViewBilling      = "VIEW_BILLING"
	FeatureRecharge         = "RECHARGE"
	FeatureViewPlans        = "VIEW_PLANS"
	FeatureManageUsers      = "MANAGE_USERS"
	FeatureManagePerms      = "MANAGE_PERMISSIONS"
	FeatureViewProducts     = "VIEW_PRODUCTS"
	FeatureViewBrands       = "VIEW_BRANDS"
	FeatureManageBrands     = "MANAGE_BRANDS"
	FeatureViewCategories   = "VIEW_CATEGORIES"
	FeatureManageCategories = "MANAGE_CATEGORIES"
	FeatureViewCustomers    = "VIEW_CUSTOMERS"
	FeatureManageCustomers  = "MANAGE_CUSTOMERS"
)

// ExpiredPlanFeatures is the fixed minimal set a tenant keeps once its plan
// lapses: enough to see the dashboard and pay, nothing else.
var ExpiredPlanFeatures = []string{FeatureDashboard, FeatureViewBilling, FeatureRecharge}

// Role represents a named bundle of capabilities.
type Role struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

// Functionality is a single grantable capability in the catalog.
type Functionality struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// Overrides is a per-user exception list applied on top of role-derived
// base permissions.
type Overrides struct {
	Adds    []string
	Removes []string
}

// Matrix is the full role-to-feature assignment snapshot used by the admin
// grid. Granted pairs are rendered as "roleID-featureID" strings so the
// caller gets O(1) membership checks.
type Matrix struct {
	Roles           []Role          `json:"roles"`
	Functionalities []Functionality `json:"functionalities"`
	AssignmentSet   []string        `json:"assignmentSet"`
}
