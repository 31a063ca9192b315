// Package auth fronts the external identity provider and carries the one
// local special case: the seeded administrator signs in against the local
// store directly, bypassing the provider entirely. The current-session
// snapshot under the shared medium's app_current_user key is owned here,
// not by the store.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/masterconnect/bandstore/localstore"
	"github.com/masterconnect/bandstore/models"
)

// adminPassword is the fixed credential pairing with the seeded admin email.
const adminPassword = "Admin123@"

// ErrInvalidCredentials is returned when neither the admin override nor the
// provider accepts the credentials.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Metadata is the optional profile data captured at sign-up.
type Metadata struct {
	Username string
	FullName string
}

// Provider is the external identity service. Implementations wrap whatever
// hosted auth backend the deployment uses.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (models.User, error)
	SignUp(ctx context.Context, email, password string, meta Metadata) (models.User, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}

// RoleChecker answers admin-role lookups for provider-managed users.
// The remote source satisfies this.
type RoleChecker interface {
	HasAdminRole(ctx context.Context, userID string) (bool, error)
}

// Session is the authenticated state handed back to callers.
type Session struct {
	User    models.User
	IsAdmin bool
}

// Service combines the provider, the role lookup and the local admin override.
type Service struct {
	provider Provider
	roles    RoleChecker
	store    *localstore.Store
	medium   localstore.Medium
	log      *zap.Logger
}

func NewService(provider Provider, roles RoleChecker, store *localstore.Store, medium localstore.Medium, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, roles: roles, store: store, medium: medium, log: log}
}

// SignIn authenticates the credentials. The well-known admin pair resolves
// against the local store and never reaches the provider; everything else is
// delegated. A successful sign-in persists the session snapshot.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if email == localstore.AdminEmail && password == adminPassword {
		admin, ok, err := s.store.GetUserByEmail(email)
		if err != nil {
			return Session{}, err
		}
		if ok {
			sess := Session{User: admin, IsAdmin: admin.Role == models.RoleAdmin}
			if err := s.saveSnapshot(admin); err != nil {
				return Session{}, err
			}
			s.log.Info("admin override sign-in", zap.String("user_id", admin.ID))
			return sess, nil
		}
		// Admin not seeded yet; fall through to the provider.
	}

	user, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, fmt.Errorf("sign-in rejected: %w", err)
	}

	isAdmin, err := s.IsAdmin(ctx, user.ID)
	if err != nil {
		s.log.Warn("admin role check failed", zap.Error(err))
		isAdmin = false
	}
	if err := s.saveSnapshot(user); err != nil {
		return Session{}, err
	}
	return Session{User: user, IsAdmin: isAdmin}, nil
}

// SignUp registers a new account with the provider. No local record is
// created; the local mirror materializes later through upsert-on-miss.
func (s *Service) SignUp(ctx context.Context, email, password string, meta Metadata) (models.User, error) {
	user, err := s.provider.SignUp(ctx, email, password, meta)
	if err != nil {
		return models.User{}, fmt.Errorf("sign-up rejected: %w", err)
	}
	return user, nil
}

// SignOut clears the session snapshot and then signs out of the provider.
// The snapshot is removed even when the provider call fails.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.medium.Delete(localstore.KeyCurrentUser); err != nil {
		return &localstore.StorageError{Op: "delete", Key: localstore.KeyCurrentUser, Err: err}
	}
	return s.provider.SignOut(ctx)
}

// ResetPassword delegates to the provider. The seeded admin has no
// provider-side account, so its password cannot be reset here.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	return s.provider.ResetPassword(ctx, email)
}

// CurrentUser restores the session snapshot, if any.
func (s *Service) CurrentUser() (models.User, bool, error) {
	raw, ok, err := s.medium.Get(localstore.KeyCurrentUser)
	if err != nil || !ok {
		return models.User{}, false, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, false, &localstore.CorruptionError{Key: localstore.KeyCurrentUser, Err: err}
	}
	return user, true, nil
}

// IsAdmin reports whether the user moderates. The seeded admin id is a fixed
// fast path; everyone else is checked against the remote role table.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == localstore.AdminID {
		return true, nil
	}
	return s.roles.HasAdminRole(ctx, userID)
}

func (s *Service) saveSnapshot(user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return &localstore.StorageError{Op: "encode", Key: localstore.KeyCurrentUser, Err: err}
	}
	if err := s.medium.Set(localstore.KeyCurrentUser, string(data)); err != nil {
		return &localstore.StorageError{Op: "write", Key: localstore.KeyCurrentUser, Err: err}
	}
	return nil
}
