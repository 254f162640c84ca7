package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyhall/internal/shared/config"
	"studyhall/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type authEnv struct {
	cfg   *config.Config
	users users.Repository
	svc   Service
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&users.User{}))

	cfg := &config.Config{JWT: config.JWTConfig{
		Secret:           "test-secret",
		JWTExpiresIn:     15 * time.Minute,
		RefreshExpiresIn: time.Hour,
	}}
	repo := users.NewRepository(db)
	return &authEnv{cfg: cfg, users: repo, svc: NewService(repo, cfg)}
}

func (e *authEnv) register(t *testing.T, email string) *AuthResponse {
	t.Helper()
	resp, err := e.svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Alice", LastName: "Smith", Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	resp := env.register(t, "  Alice@Test.Local ")
	assert.Equal(t, "alice@test.local", resp.User.Email)
	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	stored, err := env.users.GetByEmail(ctx, "alice@test.local")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)

	_, err = env.svc.Register(ctx, &RegisterRequest{
		FirstName: "Other", LastName: "Alice", Email: "alice@test.local", Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	env.register(t, "alice@test.local")

	resp, err := env.svc.Login(ctx, &LoginRequest{Email: "ALICE@test.local", Password: "secret123"})
	require.NoError(t, err)

	claims, err := env.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	_, err = env.svc.Login(ctx, &LoginRequest{Email: "alice@test.local", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, &LoginRequest{Email: "nobody@test.local", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	resp := env.register(t, "alice@test.local")

	id := uuid.MustParse(resp.User.ID)
	require.NoError(t, env.users.SetStatus(ctx, id, users.StatusDisabled))

	_, err := env.svc.Login(ctx, &LoginRequest{Email: "alice@test.local", Password: "secret123"})
	assert.ErrorIs(t, err, users.ErrAccountDisabled)

	// an outstanding refresh token stops working as well
	_, err = env.svc.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, users.ErrAccountDisabled)
}

func TestRefreshToken(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	resp := env.register(t, "alice@test.local")

	pair, err := env.svc.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = env.svc.RefreshToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = env.svc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService(env.users, &config.Config{JWT: config.JWTConfig{Secret: "other", RefreshExpiresIn: time.Hour}})
	_, err = other.RefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	resp := env.register(t, "alice@test.local")
	id := uuid.MustParse(resp.User.ID)

	err := env.svc.ChangePassword(ctx, id, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.svc.ChangePassword(ctx, id, &ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newsecret",
	}))
	_, err = env.svc.Login(ctx, &LoginRequest{Email: "alice@test.local", Password: "newsecret"})
	assert.NoError(t, err)
}

func setupAuthRouter(env *authEnv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupAuthRoutes(r.Group("/api/v1"), env.cfg, NewController(env.svc))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRoutes(t *testing.T) {
	env := newAuthEnv(t)
	r := setupAuthRouter(env)

	w := postJSON(r, "/api/v1/auth/register",
		`{"first_name":"Alice","last_name":"Smith","email":"alice@test.local","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/v1/auth/register", `{"first_name":"A","email":"bad"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/v1/auth/login", `{"email":"alice@test.local","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Data AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"alice@test.local"`)

	w = postJSON(r, "/api/v1/auth/login", `{"email":"alice@test.local","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_CREDENTIALS"`)
}

func TestAuthRoutes_DisabledLogin(t *testing.T) {
	env := newAuthEnv(t)
	r := setupAuthRouter(env)
	resp := env.register(t, "alice@test.local")
	require.NoError(t, env.users.SetStatus(context.Background(), uuid.MustParse(resp.User.ID), users.StatusDisabled))

	w := postJSON(r, "/api/v1/auth/login", `{"email":"alice@test.local","password":"secret123"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ACCOUNT_DISABLED"`)
}
