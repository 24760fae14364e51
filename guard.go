package cms

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ReferentialGuard blocks destructive author operations while dependent
// posts exist. The check and the delete write are two steps, not one
// transaction; the narrow race is accepted over a cross-resource lock.
type ReferentialGuard struct {
	posts Posts
}

// NewReferentialGuard builds a guard over the posts repository.
func NewReferentialGuard(posts Posts) *ReferentialGuard {
	return &ReferentialGuard{posts: posts}
}

// CanDeleteAuthor returns nil when no non deleted post references the
// author, and a referential conflict error otherwise.
func (g *ReferentialGuard) CanDeleteAuthor(ctx context.Context, authorID uuid.UUID) error {
	count, err := g.posts.CountActiveByAuthor(ctx, authorID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count posts for author")
	}

	if count > 0 {
		return ReferentialConflictError(
			fmt.Sprintf("author has %d active post(s); delete them before deleting the author", count),
		).WithMetadata(map[string]any{
			"author_id":  authorID.String(),
			"post_count": count,
		})
	}

	return nil
}
