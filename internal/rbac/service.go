package rbac

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/easybiz-pos/easybiz-pos/internal/platform/cache"
)

const matrixCacheKey = "rbac:matrix"

// Service orchestrates permission-matrix administration and effective
// feature resolution.
type Service struct {
	repo   Repository
	cache  *cache.Snapshot
	logger *slog.Logger
}

// NewService constructs a Service. The cache may be nil.
func NewService(repo Repository, snapshot *cache.Snapshot, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: snapshot, logger: logger}
}

// ListMatrix returns the full role/functionality/assignment snapshot for
// the admin grid, served from cache when warm.
func (s *Service) ListMatrix(ctx context.Context) (Matrix, error) {
	var cached Matrix
	if err := s.cache.Get(ctx, matrixCacheKey, &cached); err == nil {
		return cached, nil
	}

	var (
		matrix Matrix
		pairs  [][2]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		roles, err := s.repo.ListRoles(gctx)
		matrix.Roles = roles
		return err
	})
	g.Go(func() error {
		fns, err := s.repo.ListFunctionalities(gctx)
		matrix.Functionalities = fns
		return err
	})
	g.Go(func() error {
		var err error
		pairs, err = s.repo.ListAssignments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Matrix{}, err
	}

	matrix.AssignmentSet = make([]string, 0, len(pairs))
	for _, pair := range pairs {
		matrix.AssignmentSet = append(matrix.AssignmentSet, fmt.Sprintf("%d-%d", pair[0], pair[1]))
	}

	if err := s.cache.Set(ctx, matrixCacheKey, matrix); err != nil && s.logger != nil {
		s.logger.Warn("cache matrix snapshot", slog.Any("error", err))
	}
	return matrix, nil
}

// Grant assigns a functionality to a role. Granting an already-granted
// pair succeeds without error.
func (s *Service) Grant(ctx context.Context, roleID, functionalityID int64) error {
	if err := s.repo.Grant(ctx, roleID, functionalityID); err != nil {
		return err
	}
	s.invalidateMatrix(ctx)
	return nil
}

// Revoke removes a functionality from a role. Revoking a non-existent
// grant succeeds without error.
func (s *Service) Revoke(ctx context.Context, roleID, functionalityID int64) error {
	if err := s.repo.Revoke(ctx, roleID, functionalityID); err != nil {
		return err
	}
	s.invalidateMatrix(ctx)
	return nil
}

// EffectiveFeatures resolves the final capability set for a user: the base
// features of the role, the user's overrides, then plan gating. Base and
// override fetches have no ordering dependency and run concurrently.
func (s *Service) EffectiveFeatures(ctx context.Context, userID int64, roleName string, planActive bool) ([]string, error) {
	var (
		base []string
		ov   Overrides
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = s.repo.BaseFeatures(gctx, roleName)
		return err
	})
	g.Go(func() error {
		var err error
		ov, err = s.repo.UserOverrides(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Resolve(base, ov, planActive), nil
}

func (s *Service) invalidateMatrix(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, matrixCacheKey); err != nil && s.logger != nil {
		s.logger.Warn("invalidate matrix snapshot", slog.Any("error", err))
	}
}
