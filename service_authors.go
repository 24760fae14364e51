package cms

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreateAuthorInput is the validated payload for author creation.
type CreateAuthorInput struct {
	Name  string
	Email string
	Bio   string
}

// UpdateAuthorInput carries only the fields the caller wants changed.
type UpdateAuthorInput struct {
	Name  *string
	Email *string
	Bio   *string
}

// AuthorServiceOption customizes service construction.
type AuthorServiceOption func(*AuthorService)

// WithAuthorServiceLogger overrides the default logger.
func WithAuthorServiceLogger(logger Logger) AuthorServiceOption {
	return func(s *AuthorService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuthorStateMachine injects a custom lifecycle (useful for tests).
func WithAuthorStateMachine(sm *AuthorStateMachine) AuthorServiceOption {
	return func(s *AuthorService) {
		if sm != nil {
			s.lifecycle = sm
		}
	}
}

// AuthorService composes the list pipeline, the author lifecycle and the
// referential guard into the public author operations.
type AuthorService struct {
	repo      RepositoryManager
	lifecycle *AuthorStateMachine
	guard     *ReferentialGuard
	spec      ListSpec
	logger    Logger
}

// NewAuthorService wires the author operations over the repositories.
func NewAuthorService(repo RepositoryManager, opts ...AuthorServiceOption) *AuthorService {
	svc := &AuthorService{
		repo:      repo,
		lifecycle: NewAuthorStateMachine(),
		guard:     NewReferentialGuard(repo.Posts()),
		spec:      AuthorListSpec(),
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	return svc
}

// Create registers a new active author.
func (s *AuthorService) Create(ctx context.Context, input CreateAuthorInput) (*Author, error) {
	taken, err := s.repo.Authors().EmailTaken(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict.WithMetadata(map[string]any{"email": NormalizeEmail(input.Email)})
	}

	author := &Author{
		Name:  input.Name,
		Email: input.Email,
		Bio:   input.Bio,
	}

	return s.repo.Authors().Create(ctx, author)
}

// List runs the query pipeline over the not-deleted author scope.
func (s *AuthorService) List(ctx context.Context, query map[string]string) (*ListResult[*Author], error) {
	params := s.spec.Parse(query)

	records, total, err := s.repo.Authors().List(ctx, params)
	if err != nil {
		return nil, err
	}

	return NewListResult(params, total, records), nil
}

// Get returns a single active author.
func (s *AuthorService) Get(ctx context.Context, id string) (*Author, error) {
	authorID, err := parseID(id, "author")
	if err != nil {
		return nil, err
	}
	return s.repo.Authors().GetActiveByID(ctx, authorID)
}

// Update applies field changes to an active author. A deleted author is
// indistinguishable from a missing one.
func (s *AuthorService) Update(ctx context.Context, id string, input UpdateAuthorInput) (*Author, error) {
	author, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && NormalizeEmail(*input.Email) != author.Email {
		taken, err := s.repo.Authors().EmailTaken(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict.WithMetadata(map[string]any{"email": NormalizeEmail(*input.Email)})
		}
		author.Email = NormalizeEmail(*input.Email)
	}

	if input.Name != nil {
		author.Name = *input.Name
	}
	if input.Bio != nil {
		author.Bio = *input.Bio
	}
	author.UpdatedAt = time.Now()

	if err := s.repo.Authors().Save(ctx, author); err != nil {
		return nil, err
	}

	return author, nil
}

// Delete soft deletes an author once no active post references it.
func (s *AuthorService) Delete(ctx context.Context, id string) error {
	author, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.CanDeleteAuthor(ctx, author.ID); err != nil {
		return err
	}

	if err := s.lifecycle.Delete(author); err != nil {
		return err
	}

	s.logger.Info("author deleted: %s", author.ID)

	return s.repo.Authors().Save(ctx, author)
}

func parseID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ValidationError("invalid " + resource + " id")
	}
	return id, nil
}
