package cms

import (
	"context"
	"time"
)

// CreatePostInput is the validated payload for post creation. Status may
// be draft or published; deleted is rejected.
type CreatePostInput struct {
	Title    string
	Slug     string
	Content  string
	Image    string
	Status   PostStatus
	Tags     []string
	AuthorID string
}

// UpdatePostInput carries only the fields the caller wants changed.
type UpdatePostInput struct {
	Title    *string
	Slug     *string
	Content  *string
	Image    *string
	Status   *PostStatus
	Tags     *[]string
	AuthorID *string
}

// PostServiceOption customizes service construction.
type PostServiceOption func(*PostService)

// WithPostServiceLogger overrides the default logger.
func WithPostServiceLogger(logger Logger) PostServiceOption {
	return func(s *PostService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPostStateMachine injects a custom lifecycle (useful for tests).
func WithPostStateMachine(sm *PostStateMachine) PostServiceOption {
	return func(s *PostService) {
		if sm != nil {
			s.lifecycle = sm
		}
	}
}

// PostService composes the list pipeline and the post lifecycle into the
// public post operations.
type PostService struct {
	repo      RepositoryManager
	lifecycle *PostStateMachine
	spec      ListSpec
	logger    Logger
}

// NewPostService wires the post operations over the repositories.
func NewPostService(repo RepositoryManager, opts ...PostServiceOption) *PostService {
	svc := &PostService{
		repo:      repo,
		lifecycle: NewPostStateMachine(),
		spec:      PostListSpec(),
		logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	return svc
}

// Create stores a new post referencing an existing author.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*Post, error) {
	authorID, err := parseID(input.AuthorID, "author")
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Authors().GetActiveByID(ctx, authorID); err != nil {
		if IsNotFound(err) {
			return nil, ValidationError("author does not exist").
				WithMetadata(map[string]any{"author": input.AuthorID})
		}
		return nil, err
	}

	taken, err := s.repo.Posts().SlugTaken(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict.WithMetadata(map[string]any{"slug": input.Slug})
	}

	post := &Post{
		Title:    input.Title,
		Slug:     input.Slug,
		Content:  input.Content,
		Image:    input.Image,
		Tags:     input.Tags,
		AuthorID: authorID,
	}

	if err := s.lifecycle.Initialize(post, input.Status); err != nil {
		return nil, err
	}

	return s.repo.Posts().Create(ctx, post)
}

// List runs the query pipeline over the not-deleted post scope.
func (s *PostService) List(ctx context.Context, query map[string]string) (*ListResult[*Post], error) {
	params := s.spec.Parse(query)

	records, total, err := s.repo.Posts().List(ctx, params)
	if err != nil {
		return nil, err
	}

	return NewListResult(params, total, records), nil
}

// ListByAuthor runs the same pipeline scoped to one author's posts. The
// author must itself be active, otherwise the listing is a 404.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string, query map[string]string) (*ListResult[*Post], error) {
	id, err := parseID(authorID, "author")
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Authors().GetActiveByID(ctx, id); err != nil {
		return nil, err
	}

	params := s.spec.Parse(query)

	records, total, err := s.repo.Posts().List(ctx, params, ScopeByAuthor(id))
	if err != nil {
		return nil, err
	}

	return NewListResult(params, total, records), nil
}

// Get returns a single non deleted post.
func (s *PostService) Get(ctx context.Context, id string) (*Post, error) {
	postID, err := parseID(id, "post")
	if err != nil {
		return nil, err
	}
	return s.repo.Posts().GetActiveByID(ctx, postID)
}

// Update applies field changes and, when the payload carries a status,
// runs the lifecycle transition with its timestamp side effects.
func (s *PostService) Update(ctx context.Context, id string, input UpdatePostInput) (*Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != post.Slug {
		taken, err := s.repo.Posts().SlugTaken(ctx, *input.Slug)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict.WithMetadata(map[string]any{"slug": *input.Slug})
		}
		post.Slug = *input.Slug
	}

	if input.AuthorID != nil {
		authorID, err := parseID(*input.AuthorID, "author")
		if err != nil {
			return nil, err
		}
		if _, err := s.repo.Authors().GetActiveByID(ctx, authorID); err != nil {
			if IsNotFound(err) {
				return nil, ValidationError("author does not exist").
					WithMetadata(map[string]any{"author": *input.AuthorID})
			}
			return nil, err
		}
		post.AuthorID = authorID
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Image != nil {
		post.Image = *input.Image
		if post.Image == "" {
			post.Image = DefaultPostImage
		}
	}
	if input.Tags != nil {
		post.Tags = *input.Tags
	}

	if input.Status != nil {
		if err := s.lifecycle.Transition(post, *input.Status); err != nil {
			return nil, err
		}
	} else {
		post.UpdatedAt = time.Now()
	}

	if err := s.repo.Posts().Save(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete soft deletes a post. Deleting an already deleted post reports
// not found, never a second state change.
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.lifecycle.Transition(post, PostStatusDeleted); err != nil {
		return err
	}

	s.logger.Info("post deleted: %s", post.ID)

	return s.repo.Posts().Save(ctx, post)
}
