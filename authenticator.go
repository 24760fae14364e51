package cms

import (
	"context"
)

// RegisterInput is the validated payload for operator registration.
// New operators always start with the admin role; only a super_admin can
// elevate them afterwards.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Auther verifies credentials and mints identity tokens.
type Auther struct {
	users  Users
	tokens TokenService
	logger Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(users Users, tokens TokenService) *Auther {
	return &Auther{
		users:  users,
		tokens: tokens,
		logger: defLogger{},
	}
}

// WithLogger overrides the default logger.
func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies the credential pair and returns a signed token plus the
// account. A deactivated account is invisible to the lookup, so it can
// never authenticate again even though its hash is still stored.
func (s *Auther) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			s.logger.Warn("login for unknown or inactive account: %s", NormalizeEmail(email))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("login password mismatch: %s", user.ID)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Register creates a new admin operator and logs it in.
func (s *Auther) Register(ctx context.Context, input RegisterInput) (string, *User, error) {
	taken, err := s.users.EmailTaken(ctx, input.Email)
	if err != nil {
		return "", nil, err
	}
	if taken {
		return "", nil, ErrConflict.WithMetadata(map[string]any{"email": NormalizeEmail(input.Email)})
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return "", nil, err
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		IsActive:     true,
	}

	user, err = s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
