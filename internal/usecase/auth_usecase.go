package usecase

import (
	"context"
	"errors"
	"strings"

	"medportal/internal/converter"
	"medportal/internal/delivery/dto"
	"medportal/internal/domain/entity"
	"medportal/internal/domain/repository"
	"medportal/internal/infrastructure/cache"
	"medportal/internal/infrastructure/storage"
	"medportal/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrDuplicateIdentity     = errors.New("username or email already exists")
	ErrInvalidCredentials    = errors.New("invalid username, password or role")
	ErrUserNotFound          = errors.New("user not found")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type authUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	userRepo   repository.UserRepository
	jwtService *jwt.JWTService
	sessions   cache.SessionStore
	uploads    *storage.Uploads
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	sessions cache.SessionStore,
	uploads *storage.Uploads,
) AuthUsecase {
	return &authUsecase{
		db:         db,
		log:        log,
		userRepo:   userRepo,
		jwtService: jwtService,
		sessions:   sessions,
		uploads:    uploads,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	// Pre-check uniqueness for a friendly per-field message. The unique
	// indexes are what actually guarantee it under concurrency.
	if _, err := u.userRepo.FindByUsername(u.db, req.Username); err == nil {
		return nil, ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		u.log.Warnf("Failed to check username: %+v", err)
		return nil, err
	}

	if _, err := u.userRepo.FindByEmail(u.db, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		u.log.Warnf("Failed to check email: %+v", err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	// File write happens before the insert; the insert failing rolls the
	// file back so no orphan remains.
	profilePicture := ""
	if req.ProfilePicture != nil {
		profilePicture, err = u.uploads.Save(req.ProfilePicture, storage.ProfilePics)
		if err != nil {
			return nil, err
		}
	}

	user := &entity.User{
		Username:       req.Username,
		Email:          req.Email,
		Password:       string(hashedPassword),
		Role:           req.Role,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		AddressLine1:   req.AddressLine1,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		ProfilePicture: profilePicture,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.Create(tx, user); err != nil {
		u.removeUpload(profilePicture)
		if dupErr := classifyDuplicate(err); dupErr != nil {
			return nil, dupErr
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.removeUpload(profilePicture)
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByUsername(u.db, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		u.log.Warnf("Failed to find user by username: %+v", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// The claimed role is part of the credential. A role mismatch must be
	// indistinguishable from a wrong password.
	if user.Role != req.Role {
		return nil, ErrInvalidCredentials
	}

	token, sessionID, err := u.jwtService.GenerateSessionToken(user.ID, user.Username, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate session token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, sessionID, user.ID, u.jwtService.GetExpiry()); err != nil {
		u.log.Warnf("Failed to store session: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: int64(u.jwtService.GetExpiry().Seconds()),
		Role:      user.Role,
	}, nil
}

// Logout invalidates the session if one is present. Calling it with no
// session, or with an already invalidated one, is a no-op.
func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		u.log.Warnf("Failed to delete session: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *authUsecase) removeUpload(relPath string) {
	if relPath == "" {
		return
	}
	if err := u.uploads.Remove(relPath); err != nil {
		u.log.Warnf("Failed to remove uploaded file %s: %+v", relPath, err)
	}
}

// classifyDuplicate maps a storage-level unique violation to the matching
// sentinel. Covers the race where two registrations pass the pre-check.
func classifyDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		constraint := strings.ToLower(pgErr.ConstraintName)
		switch {
		case strings.Contains(constraint, "username"):
			return ErrUsernameAlreadyExists
		case strings.Contains(constraint, "email"):
			return ErrEmailAlreadyExists
		default:
			return ErrDuplicateIdentity
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateIdentity
	}
	return nil
}
