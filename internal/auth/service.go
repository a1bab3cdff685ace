package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// PermissionSource resolves the effective feature set for a user.
type PermissionSource interface {
	EffectiveFeatures(ctx context.Context, userID int64, roleName string, planActive bool) ([]string, error)
}

// PlanSource reports whether a tenant's subscription is currently active.
// A missing plan record returns shared.ErrPlanMissing.
type PlanSource interface {
	PlanActive(ctx context.Context, clientID int64) (bool, error)
}

// Service wraps the login authorization flow: credential verification, plan
// gating, permission resolution and token issuance.
type Service struct {
	repo   Repository
	perms  PermissionSource
	plans  PlanSource
	tokens *TokenManager
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, perms PermissionSource, plans PlanSource, tokens *TokenManager) *Service {
	return &Service{repo: repo, perms: perms, plans: plans, tokens: tokens, now: time.Now}
}

// LoginResult carries everything the login response needs.
type LoginResult struct {
	Token      string
	User       *User
	PlanActive bool
	Features   []string
}

// Login validates credentials, evaluates plan status, resolves the
// effective permission set and mints a capability token. Unknown
// identifiers and wrong secrets are indistinguishable: both return
// shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, identifier, secret string) (*LoginResult, error) {
	user, err := s.repo.FindByMobile(ctx, identifier)
	if err != nil {
		// Only an unknown identifier masquerades as bad credentials; an
		// infrastructure failure must surface as a server error.
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	// Global super-role accounts belong to no tenant and are never plan
	// gated.
	planActive := true
	if user.ClientID != 0 {
		planActive, err = s.plans.PlanActive(ctx, user.ClientID)
		if err != nil {
			return nil, fmt.Errorf("auth: plan status for client %d: %w", user.ClientID, err)
		}
	}

	features, err := s.perms.EffectiveFeatures(ctx, user.ID, user.Role, planActive)
	if err != nil {
		return nil, fmt.Errorf("auth: resolve features for user %d: %w", user.ID, err)
	}

	token, err := s.tokens.Issue(user, features, planActive, s.now())
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}

	return &LoginResult{Token: token, User: user, PlanActive: planActive, Features: features}, nil
}

// RegisterInput holds the fields accepted at registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Mobile    string
	Password  string
	Role      string
	ClientID  int64
	StoreID   int64
}

// Register creates a user account with a bcrypt-hashed password. Hashing
// parameters match what Login verifies against.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user := &User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Mobile:       input.Mobile,
		PasswordHash: string(hash),
		Role:         input.Role,
		ClientID:     input.ClientID,
		StoreID:      input.StoreID,
	}
	return s.repo.CreateUser(ctx, user)
}
