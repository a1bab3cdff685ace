package rbac

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/cache"
	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

type memoryRBACRepo struct {
	roles       []Role
	fns         []Functionality
	assignments map[[2]int64]struct{}
	baseByRole  map[string][]string
	overrides   map[int64]Overrides

	listCalls int
}

func newMemoryRBACRepo() *memoryRBACRepo {
	return &memoryRBACRepo{
		assignments: make(map[[2]int64]struct{}),
		baseByRole:  make(map[string][]string),
		overrides:   make(map[int64]Overrides),
	}
}

func (r *memoryRBACRepo) ListRoles(ctx context.Context) ([]Role, error) {
	r.listCalls++
	return r.roles, nil
}

func (r *memoryRBACRepo) ListFunctionalities(ctx context.Context) ([]Functionality, error) {
	return r.fns, nil
}

func (r *memoryRBACRepo) ListAssignments(ctx context.Context) ([][2]int64, error) {
	pairs := make([][2]int64, 0, len(r.assignments))
	for pair := range r.assignments {
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func (r *memoryRBACRepo) BaseFeatures(ctx context.Context, roleName string) ([]string, error) {
	return r.baseByRole[roleName], nil
}

func (r *memoryRBACRepo) UserOverrides(ctx context.Context, userID int64) (Overrides, error) {
	return r.overrides[userID], nil
}

func (r *memoryRBACRepo) Grant(ctx context.Context, roleID, functionalityID int64) error {
	found := false
	for _, role := range r.roles {
		if role.ID == roleID {
			found = true
		}
	}
	if !found {
		return shared.ErrNotFound
	}
	r.assignments[[2]int64{roleID, functionalityID}] = struct{}{}
	return nil
}

func (r *memoryRBACRepo) Revoke(ctx context.Context, roleID, functionalityID int64) error {
	delete(r.assignments, [2]int64{roleID, functionalityID})
	return nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	snapshot := cache.NewSnapshot(client, time.Minute)
	return NewService(repo, snapshot, slog.Default())
}

func TestListMatrixBuildsAssignmentSet(t *testing.T) {
	repo := newMemoryRBACRepo()
	repo.roles = []Role{{ID: 1, Name: "manager"}}
	repo.fns = []Functionality{{ID: 7, Key: FeatureDashboard}}
	repo.assignments[[2]int64{1, 7}] = struct{}{}

	svc := newTestService(t, repo)

	matrix, err := svc.ListMatrix(context.Background())
	require.NoError(t, err)
	require.Len(t, matrix.Roles, 1)
	require.Len(t, matrix.Functionalities, 1)
	require.Equal(t, []string{"1-7"}, matrix.AssignmentSet)
}

func TestListMatrixServesFromCache(t *testing.T) {
	repo := newMemoryRBACRepo()
	repo.roles = []Role{{ID: 1, Name: "manager"}}
	svc := newTestService(t, repo)

	_, err := svc.ListMatrix(context.Background())
	require.NoError(t, err)
	_, err = svc.ListMatrix(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)
}

func TestGrantInvalidatesMatrixCache(t *testing.T) {
	repo := newMemoryRBACRepo()
	repo.roles = []Role{{ID: 1, Name: "manager"}}
	repo.fns = []Functionality{{ID: 2, Key: FeatureViewProducts}}
	svc := newTestService(t, repo)

	_, err := svc.ListMatrix(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Grant(context.Background(), 1, 2))

	matrix, err := svc.ListMatrix(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1-2"}, matrix.AssignmentSet)
	require.Equal(t, 2, repo.listCalls)
}

func TestGrantIsIdempotent(t *testing.T) {
	repo := newMemoryRBACRepo()
	repo.roles = []Role{{ID: 1, Name: "manager"}}
	svc := newTestService(t, repo)

	require.NoError(t, svc.Grant(context.Background(), 1, 2))
	require.NoError(t, svc.Grant(context.Background(), 1, 2))

	matrix, err := svc.ListMatrix(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1-2"}, matrix.AssignmentSet)
}

func TestGrantUnknownRoleFails(t *testing.T) {
	repo := newMemoryRBACRepo()
	svc := newTestService(t, repo)

	err := svc.Grant(context.Background(), 99, 2)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRevokeNeverGrantedSucceeds(t *testing.T) {
	repo := newMemoryRBACRepo()
	svc := newTestService(t, repo)

	require.NoError(t, svc.Revoke(context.Background(), 1, 2))
}

func TestEffectiveFeaturesAppliesOverrides(t *testing.T) {
	repo := newMemoryRBACRepo()
	repo.baseByRole["cashier"] = []string{FeatureDashboard, FeatureViewProducts}
	repo.overrides[5] = Overrides{
		Adds:    []string{FeatureViewBilling},
		Removes: []string{FeatureViewProducts},
	}
	svc := newTestService(t, repo)

	got, err := svc.EffectiveFeatures(context.Background(), 5, "cashier", true)
	require.NoError(t, err)
	require.Equal(t, []string{FeatureDashboard, FeatureViewBilling}, got)
}

func TestEffectiveFeaturesInactivePlan(t *testing.T) {
	repo := newMemoryRBACRepo()
	repo.baseByRole["owner"] = []string{FeatureManagePerms, FeatureManageUsers}
	svc := newTestService(t, repo)

	got, err := svc.EffectiveFeatures(context.Background(), 1, "owner", false)
	require.NoError(t, err)
	require.Equal(t, []string{FeatureDashboard, FeatureRecharge, FeatureViewBilling}, got)
}

var _ Repository = (*memoryRBACRepo)(nil)
