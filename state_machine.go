package cms

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidTransition is returned when a requested status change is not
// allowed by the resource's transition table.
var ErrInvalidTransition = goerrors.New("invalid lifecycle transition", goerrors.CategoryValidation).
	WithTextCode("INVALID_STATE_TRANSITION").
	WithCode(goerrors.CodeBadRequest)

// PostMachineOption customizes post state machine construction.
type PostMachineOption func(*PostStateMachine)

// WithPostMachineClock injects a custom clock (useful for tests).
func WithPostMachineClock(clock func() time.Time) PostMachineOption {
	return func(sm *PostStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// PostStateMachine governs draft/published/deleted transitions and the
// timestamp side effects tied to them: PublishedAt is non nil exactly in
// published, DeletedAt is non nil exactly in deleted.
type PostStateMachine struct {
	transitions map[PostStatus]map[PostStatus]struct{}
	now         func() time.Time
}

// NewPostStateMachine returns the default post lifecycle.
func NewPostStateMachine(opts ...PostMachineOption) *PostStateMachine {
	sm := &PostStateMachine{
		transitions: map[PostStatus]map[PostStatus]struct{}{
			PostStatusDraft: {
				PostStatusPublished: {},
				PostStatusDeleted:   {},
			},
			PostStatusPublished: {
				PostStatusDraft:   {},
				PostStatusDeleted: {},
			},
		},
		now: time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// Initialize applies the creation state. Posts start in draft unless the
// payload asks for published; creating directly in deleted is rejected.
func (sm *PostStateMachine) Initialize(post *Post, status PostStatus) error {
	if status == "" {
		status = PostStatusDraft
	}

	if !status.IsValid() || status == PostStatusDeleted {
		return ValidationError("a post cannot be created with status " + string(status)).
			WithMetadata(map[string]any{"status": status})
	}

	post.Status = status
	if status == PostStatusPublished {
		now := sm.now()
		post.PublishedAt = &now
	}

	return nil
}

// Transition moves a post to the target status, mutating the record's
// status and timestamps in memory. Persistence is the repository's job.
func (sm *PostStateMachine) Transition(post *Post, target PostStatus) error {
	if !target.IsValid() {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": post.Status,
			"to":   target,
		})
	}

	from := post.Status
	if from == target {
		return nil
	}

	// a deleted post is gone as far as callers are concerned
	if from == PostStatusDeleted {
		return ErrNotFound
	}

	if _, ok := sm.transitions[from][target]; !ok {
		return ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	now := sm.now()
	switch target {
	case PostStatusPublished:
		post.PublishedAt = &now
		post.DeletedAt = nil
	case PostStatusDraft:
		post.PublishedAt = nil
	case PostStatusDeleted:
		post.DeletedAt = &now
		post.PublishedAt = nil
	}

	post.Status = target
	post.UpdatedAt = now

	return nil
}

// AuthorMachineOption customizes author state machine construction.
type AuthorMachineOption func(*AuthorStateMachine)

// WithAuthorMachineClock injects a custom clock.
func WithAuthorMachineClock(clock func() time.Time) AuthorMachineOption {
	return func(sm *AuthorStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// AuthorStateMachine governs the one-way active to deleted transition.
// The referential guard runs before Delete is ever invoked.
type AuthorStateMachine struct {
	now func() time.Time
}

// NewAuthorStateMachine returns the default author lifecycle.
func NewAuthorStateMachine(opts ...AuthorMachineOption) *AuthorStateMachine {
	sm := &AuthorStateMachine{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}
	return sm
}

// Delete marks the author deleted. There is no reactivation path.
func (sm *AuthorStateMachine) Delete(author *Author) error {
	if author.Status == AuthorStatusDeleted || author.DeletedAt != nil {
		return ErrNotFound
	}

	now := sm.now()
	author.Status = AuthorStatusDeleted
	author.DeletedAt = &now
	author.UpdatedAt = now

	return nil
}

// UserMachineOption customizes user state machine construction.
type UserMachineOption func(*UserStateMachine)

// WithUserMachineClock injects a custom clock.
func WithUserMachineClock(clock func() time.Time) UserMachineOption {
	return func(sm *UserStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// UserStateMachine governs operator deactivation. IsActive false and
// DeletedAt set always travel together; there is no reactivation path.
type UserStateMachine struct {
	now func() time.Time
}

// NewUserStateMachine returns the default user lifecycle.
func NewUserStateMachine(opts ...UserMachineOption) *UserStateMachine {
	sm := &UserStateMachine{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}
	return sm
}

// Deactivate marks the operator inactive.
func (sm *UserStateMachine) Deactivate(user *User) error {
	if !user.IsActive || user.DeletedAt != nil {
		return ErrNotFound
	}

	now := sm.now()
	user.IsActive = false
	user.DeletedAt = &now
	user.UpdatedAt = now

	return nil
}
