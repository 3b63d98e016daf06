package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/internal/api/middleware"
	"libraryhub/internal/api/models"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(username, password, email string) (*models.User, error) {
	args := m.Called(username, password, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(2) == nil {
		return "", "", nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupAuthTestRouter(mockService *MockAuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(mockService)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := middleware.CallerID(c)
		role, _ := middleware.CallerRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": role})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ValidateToken", "good-token").Return(&service.Claims{
			UserID:   "user-1",
			Username: "alice",
			Role:     models.RoleMember,
		}, nil)
		r := setupAuthTestRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})

	t.Run("MissingHeader", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthTestRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "ValidateToken", mock.Anything)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		mockService := new(MockAuthService)
		r := setupAuthTestRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ValidateToken", "bad-token").Return(nil, service.ErrInvalidToken)
		r := setupAuthTestRouter(mockService)

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	claimsFor := func(role string) *service.Claims {
		return &service.Claims{UserID: "user-1", Username: "alice", Role: role}
	}

	t.Run("MatchingRolePasses", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ValidateToken", "t").Return(claimsFor(models.RoleAdmin), nil)
		r := setupAuthTestRouter(mockService, middleware.RequireAdmin())

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer t")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("WrongRoleForbidden", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ValidateToken", "t").Return(claimsFor(models.RoleMember), nil)
		r := setupAuthTestRouter(mockService, middleware.RequireAdmin())

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer t")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NoRoleForbidden", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.GET("/admin-only", middleware.RequireRole(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req, _ := http.NewRequest(http.MethodGet, "/admin-only", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
