package cms

import (
	"context"
	"time"
)

// UserServiceOption customizes service construction.
type UserServiceOption func(*UserService)

// WithUserServiceLogger overrides the default logger.
func WithUserServiceLogger(logger Logger) UserServiceOption {
	return func(s *UserService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUserStateMachine injects a custom lifecycle (useful for tests).
func WithUserStateMachine(sm *UserStateMachine) UserServiceOption {
	return func(s *UserService) {
		if sm != nil {
			s.lifecycle = sm
		}
	}
}

// UserService exposes the super_admin operator management operations:
// listing, deactivation and role changes. Accounts are never hard
// deleted and never reactivated.
type UserService struct {
	repo      RepositoryManager
	lifecycle *UserStateMachine
	spec      ListSpec
	logger    Logger
}

// NewUserService wires the operator operations over the repositories.
func NewUserService(repo RepositoryManager, opts ...UserServiceOption) *UserService {
	svc := &UserService{
		repo:      repo,
		lifecycle: NewUserStateMachine(),
		spec:      UserListSpec(),
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	return svc
}

// List runs the query pipeline over active operator accounts.
func (s *UserService) List(ctx context.Context, query map[string]string) (*ListResult[*User], error) {
	params := s.spec.Parse(query)

	records, total, err := s.repo.Users().List(ctx, params)
	if err != nil {
		return nil, err
	}

	return NewListResult(params, total, records), nil
}

// Deactivate flips the account to inactive and stamps the deletion time.
// A second deactivation observes not found.
func (s *UserService) Deactivate(ctx context.Context, id string) (*User, error) {
	userID, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().GetActiveByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.Deactivate(user); err != nil {
		return nil, err
	}

	s.logger.Info("user deactivated: %s", user.ID)

	if err := s.repo.Users().Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ChangeRole assigns a new role. Activation state is untouched.
func (s *UserService) ChangeRole(ctx context.Context, id string, roleStr string) (*User, error) {
	role, ok := ParseRole(roleStr)
	if !ok {
		return nil, ValidationError("invalid role " + roleStr)
	}

	userID, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().GetActiveByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.UpdatedAt = time.Now()

	if err := s.repo.Users().Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
