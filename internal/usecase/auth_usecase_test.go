package usecase

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"medportal/config"
	"medportal/internal/delivery/dto"
	"medportal/internal/domain/entity"
	"medportal/internal/infrastructure/database"
	"medportal/internal/infrastructure/storage"
	"medportal/internal/repository"
	"medportal/pkg/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeSessionStore is an in-memory stand-in for the Redis-backed store.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]uint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]uint)}
}

func (s *fakeSessionStore) Save(_ context.Context, sessionID string, userID uint, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *fakeSessionStore) Valid(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	return ok, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// One connection keeps the in-memory database alive across queries.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newAuthForTest(t *testing.T) (AuthUsecase, *fakeSessionStore, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	sessions := newFakeSessionStore()
	jwtService := jwt.NewJWTService(config.SessionConfig{Secret: "test-secret", Expiry: time.Hour})
	uploads := storage.NewUploads(t.TempDir(), 2<<20)
	if err := uploads.Init(); err != nil {
		t.Fatalf("uploads init: %v", err)
	}

	uc := NewAuthUsecase(db, testLogger(), repository.NewUserRepository(), jwtService, sessions, uploads)
	return uc, sessions, db
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func registerRequest(username, email, role string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Role:            role,
		FirstName:       "Alice",
		LastName:        "Smith",
		Username:        username,
		Email:           email,
		Password:        "Secr3t!",
		ConfirmPassword: "Secr3t!",
		AddressLine1:    "1 Main St",
		City:            "Springfield",
		State:           "IL",
		Pincode:         "62701",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	uc, sessions, db := newAuthForTest(t)
	ctx := context.Background()

	user, err := uc.Register(ctx, registerRequest("alice", "alice@example.com", entity.RoleDoctor))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != entity.RoleDoctor {
		t.Fatalf("expected role doctor, got %s", user.Role)
	}

	// The persisted password must be a hash, never the plaintext.
	var stored entity.User
	if err := db.Where("username = ?", "alice").First(&stored).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.Password == "Secr3t!" || stored.Password == "" {
		t.Fatalf("password stored in plaintext or empty")
	}

	tokens, err := uc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "Secr3t!", Role: entity.RoleDoctor})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.Token == "" {
		t.Fatalf("expected a session token")
	}

	sessions.mu.Lock()
	active := len(sessions.sessions)
	sessions.mu.Unlock()
	if active != 1 {
		t.Fatalf("expected exactly one active session, got %d", active)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	uc, _, _ := newAuthForTest(t)
	ctx := context.Background()

	if _, err := uc.Register(ctx, registerRequest("alice", "alice@example.com", entity.RoleDoctor)); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []dto.LoginRequest{
		{Username: "alice", Password: "wrong", Role: entity.RoleDoctor},    // wrong password
		{Username: "alice", Password: "Secr3t!", Role: entity.RolePatient}, // wrong role
		{Username: "nobody", Password: "Secr3t!", Role: entity.RoleDoctor}, // unknown user
	}
	for _, req := range cases {
		if _, err := uc.Login(ctx, &req); err != ErrInvalidCredentials {
			t.Errorf("Login(%s/%s) = %v, want ErrInvalidCredentials", req.Username, req.Role, err)
		}
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	uc, _, db := newAuthForTest(t)
	ctx := context.Background()

	if _, err := uc.Register(ctx, registerRequest("bob", "bob@example.com", entity.RolePatient)); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Register(ctx, registerRequest("bob", "other@example.com", entity.RolePatient)); err != ErrUsernameAlreadyExists {
		t.Fatalf("duplicate username: got %v, want ErrUsernameAlreadyExists", err)
	}
	if _, err := uc.Register(ctx, registerRequest("other", "bob@example.com", entity.RolePatient)); err != ErrEmailAlreadyExists {
		t.Fatalf("duplicate email: got %v, want ErrEmailAlreadyExists", err)
	}

	// Failed attempts must not leave extra rows behind.
	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

// stubUserRepo lets a test force the insert outcome while the uniqueness
// pre-checks see an empty store.
type stubUserRepo struct {
	createErr error
}

func (r *stubUserRepo) Create(_ *gorm.DB, _ *entity.User) error {
	return r.createErr
}

func (r *stubUserRepo) FindByUsername(_ *gorm.DB, _ string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(_ *gorm.DB, _ string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ *gorm.DB, _ uint) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegisterSavesProfilePicture(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	uploads := storage.NewUploads(dir, 2<<20)
	if err := uploads.Init(); err != nil {
		t.Fatalf("uploads init: %v", err)
	}
	jwtService := jwt.NewJWTService(config.SessionConfig{Secret: "test-secret", Expiry: time.Hour})
	uc := NewAuthUsecase(db, testLogger(), repository.NewUserRepository(), jwtService, newFakeSessionStore(), uploads)

	req := registerRequest("alice", "alice@example.com", entity.RoleDoctor)
	req.ProfilePicture = fileHeader(t, "avatar.png", []byte("imagedata"))

	user, err := uc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ProfilePicture != "profile_pics/avatar.png" {
		t.Fatalf("unexpected stored reference %q", user.ProfilePicture)
	}
	if _, err := os.Stat(filepath.Join(dir, "profile_pics", "avatar.png")); err != nil {
		t.Fatalf("saved picture missing: %v", err)
	}

	var stored entity.User
	if err := db.Where("username = ?", "alice").First(&stored).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.ProfilePicture != "profile_pics/avatar.png" {
		t.Fatalf("row stores %q, want the relative path", stored.ProfilePicture)
	}
}

func TestRegisterInsertFailureRemovesUpload(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	uploads := storage.NewUploads(dir, 2<<20)
	if err := uploads.Init(); err != nil {
		t.Fatalf("uploads init: %v", err)
	}
	jwtService := jwt.NewJWTService(config.SessionConfig{Secret: "test-secret", Expiry: time.Hour})
	repo := &stubUserRepo{createErr: errors.New("connection reset")}
	uc := NewAuthUsecase(db, testLogger(), repo, jwtService, newFakeSessionStore(), uploads)

	req := registerRequest("alice", "alice@example.com", entity.RoleDoctor)
	req.ProfilePicture = fileHeader(t, "avatar.png", []byte("imagedata"))

	if _, err := uc.Register(context.Background(), req); err == nil {
		t.Fatalf("expected the insert failure to surface")
	}

	// The saved file must not survive the failed insert.
	entries, err := os.ReadDir(filepath.Join(dir, "profile_pics"))
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("orphaned upload left behind: %v", entries)
	}
}

func TestRegisterInsertTimeDuplicate(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	uploads := storage.NewUploads(dir, 2<<20)
	if err := uploads.Init(); err != nil {
		t.Fatalf("uploads init: %v", err)
	}
	jwtService := jwt.NewJWTService(config.SessionConfig{Secret: "test-secret", Expiry: time.Hour})

	// The pre-checks see nothing, the insert hits the unique index: the
	// losing side of two concurrent registrations.
	repo := &stubUserRepo{createErr: &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}}
	uc := NewAuthUsecase(db, testLogger(), repo, jwtService, newFakeSessionStore(), uploads)

	req := registerRequest("bob", "bob@example.com", entity.RolePatient)
	req.ProfilePicture = fileHeader(t, "avatar.png", []byte("imagedata"))

	if _, err := uc.Register(context.Background(), req); err != ErrUsernameAlreadyExists {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "profile_pics"))
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("orphaned upload left behind: %v", entries)
	}
}

func TestClassifyDuplicate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"username constraint", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"}, ErrUsernameAlreadyExists},
		{"email constraint", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, ErrEmailAlreadyExists},
		{"other unique constraint", &pgconn.PgError{Code: "23505", ConstraintName: "idx_something_else"}, ErrDuplicateIdentity},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "fk_posts_category"}, nil},
		{"translated sentinel", gorm.ErrDuplicatedKey, ErrDuplicateIdentity},
		{"unrelated error", errors.New("disk full"), nil},
	}
	for _, tc := range cases {
		if got := classifyDuplicate(tc.err); got != tc.want {
			t.Errorf("%s: classifyDuplicate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInsertDuplicateTranslatedBySQLite(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewUserRepository()

	user := &entity.User{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "hash",
		Role:      entity.RolePatient,
		FirstName: "Bob",
		LastName:  "Jones",
	}
	if err := repo.Create(db, user); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	dup := &entity.User{
		Username:  "bob",
		Email:     "bob2@example.com",
		Password:  "hash",
		Role:      entity.RolePatient,
		FirstName: "Bob",
		LastName:  "Jones",
	}
	err := repo.Create(db, dup)
	if err == nil {
		t.Fatalf("expected the unique index to reject the duplicate")
	}
	if got := classifyDuplicate(err); got != ErrDuplicateIdentity {
		t.Fatalf("classifyDuplicate = %v, want ErrDuplicateIdentity", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	uc, sessions, _ := newAuthForTest(t)
	ctx := context.Background()

	if _, err := uc.Register(ctx, registerRequest("alice", "alice@example.com", entity.RoleDoctor)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := uc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "Secr3t!", Role: entity.RoleDoctor}); err != nil {
		t.Fatalf("login: %v", err)
	}

	sessions.mu.Lock()
	var sessionID string
	for id := range sessions.sessions {
		sessionID = id
	}
	sessions.mu.Unlock()

	if err := uc.Logout(ctx, sessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if valid, _ := sessions.Valid(ctx, sessionID); valid {
		t.Fatalf("session still valid after logout")
	}

	// A second logout, and one with no session at all, are no-ops.
	if err := uc.Logout(ctx, sessionID); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
	if err := uc.Logout(ctx, ""); err != nil {
		t.Fatalf("anonymous logout: %v", err)
	}
}
