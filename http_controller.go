package cms

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/goliatone/go-cms/storage"
)

// LoginPayload carries the credentials for an operator sign in.
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// RegisterPayload carries the fields for a new operator account.
type RegisterPayload struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 72)),
	)
}

type CreateAuthorPayload struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
	Bio   string `json:"bio" form:"bio"`
}

func (p CreateAuthorPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

type UpdateAuthorPayload struct {
	Name  *string `json:"name" form:"name"`
	Email *string `json:"email" form:"email"`
	Bio   *string `json:"bio" form:"bio"`
}

func (p UpdateAuthorPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&p.Email, validation.NilOrNotEmpty, is.Email),
	)
}

type CreatePostPayload struct {
	Title   string   `json:"title" form:"title"`
	Slug    string   `json:"slug" form:"slug"`
	Content string   `json:"content" form:"content"`
	Status  string   `json:"status" form:"status"`
	Tags    []string `json:"tags" form:"tags"`
	Author  string   `json:"author" form:"author"`
}

func (p CreatePostPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.Author, validation.Required, is.UUIDv4),
	)
}

type UpdatePostPayload struct {
	Title   *string   `json:"title" form:"title"`
	Slug    *string   `json:"slug" form:"slug"`
	Content *string   `json:"content" form:"content"`
	Status  *string   `json:"status" form:"status"`
	Tags    *[]string `json:"tags" form:"tags"`
	Author  *string   `json:"author" form:"author"`
}

func (p UpdatePostPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Slug, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&p.Author, validation.NilOrNotEmpty, is.UUIDv4),
	)
}

type ChangeRolePayload struct {
	Role string `json:"role" form:"role"`
}

func (p ChangeRolePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Role, validation.Required),
	)
}

// UserDTO is the operator representation we hand back over the API.
// Password hashes never leave the service layer.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func NewUserDTO(user *User) UserDTO {
	return UserDTO{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// Controller wires the domain services to fiber routes.
type Controller struct {
	Auth    *Auther
	Authors *AuthorService
	Posts   *PostService
	Users   *UserService
	Uploads storage.Provider
	Bucket  string
	Logger  Logger
}

type ControllerOption func(*Controller)

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

func WithUploads(provider storage.Provider, bucket string) ControllerOption {
	return func(c *Controller) {
		c.Uploads = provider
		c.Bucket = bucket
	}
}

func NewController(auth *Auther, authors *AuthorService, posts *PostService, users *UserService, opts ...ControllerOption) *Controller {
	ctrl := &Controller{
		Auth:    auth,
		Authors: authors,
		Posts:   posts,
		Users:   users,
		Bucket:  "uploads",
		Logger:  defLogger{},
	}

	for _, opt := range opts {
		opt(ctrl)
	}

	return ctrl
}

// RegisterRoutes mounts the public auth endpoints and the protected API
// group. Everything under /api requires a bearer token; author and post
// writes require at least the admin role, user management requires
// super admin.
func (ctrl *Controller) RegisterRoutes(app *fiber.App, tokens TokenService) {
	app.Get("/health", ctrl.Health)

	auth := app.Group("/auth")
	auth.Post("/login", ctrl.Login)
	auth.Post("/register", ctrl.Register)

	api := app.Group("/api", RequireAuth(tokens))

	authors := api.Group("/authors")
	authors.Get("/", ctrl.ListAuthors)
	authors.Get("/:id", ctrl.GetAuthor)
	authors.Get("/:id/posts", ctrl.ListAuthorPosts)
	authors.Post("/", RequireRole(RoleAdmin), ctrl.CreateAuthor)
	authors.Patch("/:id", RequireRole(RoleAdmin), ctrl.UpdateAuthor)
	authors.Delete("/:id", RequireRole(RoleAdmin), ctrl.DeleteAuthor)

	posts := api.Group("/posts")
	posts.Get("/", ctrl.ListPosts)
	posts.Get("/:id", ctrl.GetPost)
	posts.Post("/", RequireRole(RoleAdmin), ctrl.CreatePost)
	posts.Patch("/:id", RequireRole(RoleAdmin), ctrl.UpdatePost)
	posts.Delete("/:id", RequireRole(RoleAdmin), ctrl.DeletePost)

	users := api.Group("/users", RequireRole(RoleSuperAdmin))
	users.Get("/", ctrl.ListUsers)
	users.Delete("/:id", ctrl.DeactivateUser)
	users.Patch("/:id/role", ctrl.ChangeUserRole)
}

func (ctrl *Controller) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (ctrl *Controller) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	token, user, err := ctrl.Auth.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  NewUserDTO(user),
	})
}

func (ctrl *Controller) Register(c *fiber.Ctx) error {
	var payload RegisterPayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	token, user, err := ctrl.Auth.Register(c.UserContext(), RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  NewUserDTO(user),
	})
}

func (ctrl *Controller) ListAuthors(c *fiber.Ctx) error {
	result, err := ctrl.Authors.List(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (ctrl *Controller) GetAuthor(c *fiber.Ctx) error {
	author, err := ctrl.Authors.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(author)
}

func (ctrl *Controller) CreateAuthor(c *fiber.Ctx) error {
	var payload CreateAuthorPayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	author, err := ctrl.Authors.Create(c.UserContext(), CreateAuthorInput{
		Name:  payload.Name,
		Email: payload.Email,
		Bio:   payload.Bio,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(author)
}

func (ctrl *Controller) UpdateAuthor(c *fiber.Ctx) error {
	var payload UpdateAuthorPayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	author, err := ctrl.Authors.Update(c.UserContext(), c.Params("id"), UpdateAuthorInput{
		Name:  payload.Name,
		Email: payload.Email,
		Bio:   payload.Bio,
	})
	if err != nil {
		return err
	}

	return c.JSON(author)
}

func (ctrl *Controller) DeleteAuthor(c *fiber.Ctx) error {
	if err := ctrl.Authors.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ctrl *Controller) ListAuthorPosts(c *fiber.Ctx) error {
	result, err := ctrl.Posts.ListByAuthor(c.UserContext(), c.Params("id"), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (ctrl *Controller) ListPosts(c *fiber.Ctx) error {
	result, err := ctrl.Posts.List(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (ctrl *Controller) GetPost(c *fiber.Ctx) error {
	post, err := ctrl.Posts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (ctrl *Controller) CreatePost(c *fiber.Ctx) error {
	var payload CreatePostPayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	image, err := ctrl.storeImage(c)
	if err != nil {
		return err
	}

	post, err := ctrl.Posts.Create(c.UserContext(), CreatePostInput{
		Title:    payload.Title,
		Slug:     payload.Slug,
		Content:  payload.Content,
		Image:    image,
		Status:   PostStatus(payload.Status),
		Tags:     payload.Tags,
		AuthorID: payload.Author,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (ctrl *Controller) UpdatePost(c *fiber.Ctx) error {
	var payload UpdatePostPayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	input := UpdatePostInput{
		Title:    payload.Title,
		Slug:     payload.Slug,
		Content:  payload.Content,
		Tags:     payload.Tags,
		AuthorID: payload.Author,
	}

	if payload.Status != nil {
		status := PostStatus(*payload.Status)
		input.Status = &status
	}

	image, err := ctrl.storeImage(c)
	if err != nil {
		return err
	}
	if image != "" {
		input.Image = &image
	}

	post, err := ctrl.Posts.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(post)
}

func (ctrl *Controller) DeletePost(c *fiber.Ctx) error {
	if err := ctrl.Posts.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (ctrl *Controller) ListUsers(c *fiber.Ctx) error {
	result, err := ctrl.Users.List(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (ctrl *Controller) DeactivateUser(c *fiber.Ctx) error {
	user, err := ctrl.Users.Deactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(NewUserDTO(user))
}

func (ctrl *Controller) ChangeUserRole(c *fiber.Ctx) error {
	var payload ChangeRolePayload
	if err := c.BodyParser(&payload); err != nil {
		return ValidationError("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ValidationError(err.Error())
	}

	user, err := ctrl.Users.ChangeRole(c.UserContext(), c.Params("id"), payload.Role)
	if err != nil {
		return err
	}

	return c.JSON(NewUserDTO(user))
}

// storeImage copies an optional multipart "image" part through the
// uploads provider and returns the public path of the stored object.
// Requests without an image part, or controllers without an uploads
// provider, return the empty string.
func (ctrl *Controller) storeImage(c *fiber.Ctx) (string, error) {
	if ctrl.Uploads == nil {
		return "", nil
	}

	header, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	key, err := ctrl.copyUpload(header)
	if err != nil {
		ctrl.Logger.Error("failed to store upload: %v", err)
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return "/" + path.Join(ctrl.Bucket, key), nil
}

func (ctrl *Controller) copyUpload(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	key := uuid.New().String() + ext

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := ctrl.Uploads.Put(ctrl.Bucket, key, bytes.NewReader(body), contentType); err != nil {
		return "", err
	}

	return key, nil
}
