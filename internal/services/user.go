package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskboard-pm/apiserver/internal/apierr"
	"github.com/taskboard-pm/apiserver/internal/auth"
	"github.com/taskboard-pm/apiserver/internal/logger"
	"github.com/taskboard-pm/apiserver/internal/storage"
	"github.com/taskboard-pm/apiserver/internal/validation"
	"github.com/taskboard-pm/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context, offset, limit int) ([]types.User, int, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatar string) error
	SetRoles(ctx context.Context, userID string, roleIDs []string) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// CacheInvalidator drops cached permission answers after grants change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Session is a user together with a freshly issued access token.
type Session struct {
	types.User
	Token string `json:"token"`
}

var avatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// UserService encapsulates account, avatar and role assignment use-cases.
type UserService struct {
	repo        UserRepository
	tokens      TokenIssuer
	avatars     storage.ObjectStorage
	invalidator CacheInvalidator
}

// NewUserService builds the service. avatars and invalidator may be nil.
func NewUserService(repo UserRepository, tokens TokenIssuer, avatars storage.ObjectStorage, invalidator CacheInvalidator) *UserService {
	return &UserService{repo: repo, tokens: tokens, avatars: avatars, invalidator: invalidator}
}

// Register creates a staff account and signs it in.
func (s *UserService) Register(ctx context.Context, in validation.RegisterUser) (Session, error) {
	hash, err := auth.HashPassword(*in.Password)
	if err != nil {
		return Session{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Name:         *in.Name,
		Email:        strings.ToLower(*in.Email),
		Type:         types.UserTypeStaff,
		Status:       types.UserStatusOnline,
		PasswordHash: hash,
	})
	if err != nil {
		return Session{}, userResource.translate(err)
	}
	return s.session(user)
}

func (s *UserService) Login(ctx context.Context, in validation.Login) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, *in.Email)
	if err != nil {
		return Session{}, userResource.translate(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, *in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return Session{}, apierr.Unauthorized("Unauthorized: Invalid credentials")
		}
		return Session{}, err
	}
	return s.session(user)
}

func (s *UserService) session(user types.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: user, Token: token}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	return user, userResource.translate(err)
}

// GetByID satisfies the admin policy; it returns store errors untranslated.
func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]types.User, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.repo.List(ctx, offset, limit)
}

func (s *UserService) ChangePassword(ctx context.Context, id string, in validation.ChangePassword) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return userResource.translate(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, *in.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return apierr.BadRequest("Current password is incorrect")
		}
		return err
	}

	hash, err := auth.HashPassword(*in.NewPassword)
	if err != nil {
		return err
	}
	return userResource.translate(s.repo.UpdatePassword(ctx, id, hash))
}

// SetAvatar stores an uploaded image and points the user at it. The previous
// avatar object is removed on a best-effort basis.
func (s *UserService) SetAvatar(ctx context.Context, id string, file io.ReadSeeker, size int64) (types.User, error) {
	if s.avatars == nil {
		return types.User{}, apierr.New(http.StatusServiceUnavailable, "Avatar storage is not configured")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, userResource.translate(err)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return types.User{}, fmt.Errorf("detect avatar type: %w", err)
	}
	contentType := strings.SplitN(mtype.String(), ";", 2)[0]
	if !avatarTypes[contentType] {
		return types.User{}, apierr.BadRequest("Avatar must be a PNG, JPEG, GIF or WebP image")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return types.User{}, fmt.Errorf("rewind avatar: %w", err)
	}

	key := fmt.Sprintf("avatars/%s/%s%s", id, uuid.NewString(), mtype.Extension())
	if err := s.avatars.Put(ctx, key, file, size, contentType); err != nil {
		return types.User{}, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.repo.UpdateAvatar(ctx, id, key); err != nil {
		_ = s.avatars.Delete(ctx, key)
		return types.User{}, userResource.translate(err)
	}

	if previous := user.Avatar; previous != "" {
		if err := s.avatars.Delete(ctx, previous); err != nil {
			logger.Log(ctx).Warn(ctx, "failed to delete previous avatar", zap.String("key", previous), zap.Error(err))
		}
	}

	user.Avatar = key
	return user, nil
}

// OpenAvatar returns the stored avatar of a user. Callers close the body.
func (s *UserService) OpenAvatar(ctx context.Context, id string) (storage.Object, error) {
	if s.avatars == nil {
		return storage.Object{}, apierr.New(http.StatusServiceUnavailable, "Avatar storage is not configured")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storage.Object{}, userResource.translate(err)
	}
	if user.Avatar == "" {
		return storage.Object{}, apierr.NotFound("Avatar not found")
	}

	obj, err := s.avatars.Get(ctx, user.Avatar)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return storage.Object{}, apierr.NotFound("Avatar not found")
	}
	return obj, err
}

// AssignRoles replaces the roles of a user.
func (s *UserService) AssignRoles(ctx context.Context, userID string, in validation.AssignRoles) error {
	if err := s.repo.SetRoles(ctx, userID, in.RoleIDs); err != nil {
		return userResource.translate(err)
	}
	invalidate(ctx, s.invalidator)
	return nil
}

func invalidate(ctx context.Context, invalidator CacheInvalidator) {
	if invalidator == nil {
		return
	}
	if err := invalidator.Invalidate(ctx); err != nil {
		logger.Log(ctx).Error(ctx, "failed to invalidate permission cache", zap.Error(err))
	}
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return offset, limit
}
