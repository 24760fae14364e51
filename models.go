package cms

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusDeleted   PostStatus = "deleted"
)

// IsValid reports whether the status is a known lifecycle state.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusDeleted:
		return true
	default:
		return false
	}
}

// AuthorStatus is the lifecycle state of an author.
type AuthorStatus string

const (
	AuthorStatusActive  AuthorStatus = "active"
	AuthorStatusDeleted AuthorStatus = "deleted"
)

func (s AuthorStatus) IsValid() bool {
	switch s {
	case AuthorStatusActive, AuthorStatusDeleted:
		return true
	default:
		return false
	}
}

// DefaultPostImage is used whenever a post is created or updated with a
// blank image reference.
const DefaultPostImage = "/uploads/placeholder.png"

// User is an operator account. Deactivation is a soft delete: IsActive
// flips to false and DeletedAt is set in the same write, and the record
// disappears from every read path.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name         string     `bun:"name,notnull" json:"name"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Role         Role       `bun:"role,notnull" json:"role"`
	IsActive     bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
	DeletedAt    *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deletedAt,omitempty"`
}

// EnsureDefaults fills role and id for records built from sparse input.
func (u *User) EnsureDefaults() {
	if u.Role == "" {
		u.Role = RoleAdmin
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.IsActive = u.DeletedAt == nil
}

// Author is a public byline. Posts reference authors by id; the reference
// is weak, deleting an author is blocked while active posts point at it
// rather than cascading.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:aut"`

	ID        uuid.UUID    `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Name      string       `bun:"name,notnull" json:"name"`
	Email     string       `bun:"email,notnull,unique" json:"email"`
	Bio       string       `bun:"bio" json:"bio,omitempty"`
	Status    AuthorStatus `bun:"status,notnull" json:"status"`
	CreatedAt time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
	DeletedAt *time.Time   `bun:"deleted_at,soft_delete,nullzero" json:"deletedAt,omitempty"`
}

// EnsureDefaults fills id and status for new records.
func (a *Author) EnsureDefaults() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AuthorStatusActive
	}
}

// Post is a content entry. Invariants maintained by the lifecycle machine:
// PublishedAt is non nil iff Status is published, DeletedAt is non nil iff
// Status is deleted.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`

	ID          uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Slug        string     `bun:"slug,notnull,unique" json:"slug"`
	Content     string     `bun:"content,notnull" json:"content"`
	Image       string     `bun:"image,notnull" json:"image"`
	Status      PostStatus `bun:"status,notnull" json:"status"`
	Tags        []string   `bun:"tags,type:jsonb" json:"tags"`
	AuthorID    uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author"`
	Author      *Author    `bun:"rel:belongs-to,join:author_id=id" json:"-"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt"`
	DeletedAt   *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deletedAt,omitempty"`
}

// EnsureDefaults fills id, image and tags for new records. Status defaults
// are the lifecycle machine's concern, not the model's.
func (p *Post) EnsureDefaults() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Image == "" {
		p.Image = DefaultPostImage
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}
