package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"libraryhub/internal/api/handler"
	"libraryhub/internal/api/models"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockBorrowService struct {
	mock.Mock
}

func (m *MockBorrowService) Borrow(ctx context.Context, req service.BorrowRequest) (*models.BorrowRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) GetByID(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) List(ctx context.Context) ([]models.BorrowRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) ListByMember(ctx context.Context, memberID string) ([]models.BorrowRecord, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) MarkReturned(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) MarkOverdue(ctx context.Context, id int64) (*models.BorrowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BorrowRecord), args.Error(1)
}

func (m *MockBorrowService) ListOverdue(ctx context.Context) ([]models.BorrowRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.BorrowRecord), args.Error(1)
}

// --- SETUP ---

// mockAuthMiddleware stands in for the real token check, planting the
// caller identity the handlers read from the context.
func mockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", "testuser")
		c.Set("role", role)
		c.Next()
	}
}

func setupBorrowRouter(mockService *MockBorrowService, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewBorrowHandler(mockService)

	rg := r.Group("/api/borrow-records")
	if role != "" {
		rg.Use(mockAuthMiddleware(userID, role))
	}
	h.RegisterRoutes(rg)
	return r
}

func borrowedRecord(id int64, memberID string) *models.BorrowRecord {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &models.BorrowRecord{
		ID:         id,
		BookID:     7,
		MemberID:   memberID,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, 14),
		Status:     models.StatusBorrowed,
	}
}

// --- TESTS ---

func TestBorrowHandler_Create(t *testing.T) {
	t.Run("MemberBorrowsForSelf", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		mockService.On("Borrow", mock.Anything, mock.MatchedBy(func(req service.BorrowRequest) bool {
			return req.BookID == 7 && req.MemberID == "member-1"
		})).Return(borrowedRecord(1, "member-1"), nil).Once()

		body, _ := json.Marshal(gin.H{"book_id": 7})
		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "BORROWED", resp["status"])
		assert.Equal(t, "member-1", resp["member_id"])
		mockService.AssertExpectations(t)
	})

	t.Run("MemberCannotBorrowForOthers", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		body, _ := json.Marshal(gin.H{"book_id": 7, "member_id": "member-2"})
		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertNotCalled(t, "Borrow", mock.Anything, mock.Anything)
	})

	t.Run("AdminBorrowsOnBehalf", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "admin-1", models.RoleAdmin)

		mockService.On("Borrow", mock.Anything, mock.MatchedBy(func(req service.BorrowRequest) bool {
			return req.MemberID == "member-2"
		})).Return(borrowedRecord(1, "member-2"), nil).Once()

		body, _ := json.Marshal(gin.H{"book_id": 7, "member_id": "member-2"})
		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("OutOfStock", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		mockService.On("Borrow", mock.Anything, mock.Anything).Return(nil, service.ErrOutOfStock).Once()

		body, _ := json.Marshal(gin.H{"book_id": 7})
		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingBookID", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		body, _ := json.Marshal(gin.H{})
		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Borrow", mock.Anything, mock.Anything)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "", "")

		body, _ := json.Marshal(gin.H{"book_id": 7})
		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBorrowHandler_List(t *testing.T) {
	t.Run("AdminSeesAll", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "admin-1", models.RoleAdmin)

		all := []models.BorrowRecord{*borrowedRecord(1, "member-1"), *borrowedRecord(2, "member-2")}
		mockService.On("List", mock.Anything).Return(all, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, float64(2), resp["total"])
		mockService.AssertNotCalled(t, "ListByMember", mock.Anything, mock.Anything)
	})

	t.Run("MemberSeesOwnOnly", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		own := []models.BorrowRecord{*borrowedRecord(1, "member-1")}
		mockService.On("ListByMember", mock.Anything, "member-1").Return(own, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertNotCalled(t, "List", mock.Anything)
		mockService.AssertExpectations(t)
	})
}

func TestBorrowHandler_Get(t *testing.T) {
	t.Run("OwnRecord", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		mockService.On("GetByID", mock.Anything, int64(1)).Return(borrowedRecord(1, "member-1"), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ForeignRecordForbidden", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		mockService.On("GetByID", mock.Anything, int64(2)).Return(borrowedRecord(2, "member-2"), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records/2", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		mockService.On("GetByID", mock.Anything, int64(99)).Return(nil, service.ErrRecordNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records/99", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBorrowHandler_Return(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		returned := borrowedRecord(1, "member-1")
		now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		returned.Status = models.StatusReturned
		returned.ReturnDate = &now

		mockService.On("GetByID", mock.Anything, int64(1)).Return(borrowedRecord(1, "member-1"), nil).Once()
		mockService.On("MarkReturned", mock.Anything, int64(1)).Return(returned, nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records/1/return", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "RETURNED", resp["status"])
		assert.NotEmpty(t, resp["return_date"])
	})

	t.Run("RepeatedReturnStaysOK", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		returned := borrowedRecord(1, "member-1")
		returned.Status = models.StatusReturned

		mockService.On("GetByID", mock.Anything, int64(1)).Return(returned, nil).Once()
		mockService.On("MarkReturned", mock.Anything, int64(1)).Return(returned, nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records/1/return", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "RETURNED", resp["status"])
	})

	t.Run("ForeignRecordForbidden", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		mockService.On("GetByID", mock.Anything, int64(2)).Return(borrowedRecord(2, "member-2"), nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records/2/return", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertNotCalled(t, "MarkReturned", mock.Anything, mock.Anything)
	})
}

func TestBorrowHandler_Overdue(t *testing.T) {
	t.Run("AdminFlips", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "admin-1", models.RoleAdmin)

		overdue := borrowedRecord(1, "member-1")
		overdue.Status = models.StatusOverdue
		mockService.On("MarkOverdue", mock.Anything, int64(1)).Return(overdue, nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records/1/overdue", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "OVERDUE", resp["status"])
	})

	t.Run("MemberForbidden", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		req, _ := http.NewRequest(http.MethodPost, "/api/borrow-records/1/overdue", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		mockService.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything)
	})
}

func TestBorrowHandler_ListOverdue(t *testing.T) {
	t.Run("Admin", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "admin-1", models.RoleAdmin)

		overdue := borrowedRecord(1, "member-1")
		overdue.Status = models.StatusOverdue
		mockService.On("ListOverdue", mock.Anything).Return([]models.BorrowRecord{*overdue}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records/overdue", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, float64(1), resp["total"])
	})

	t.Run("MemberForbidden", func(t *testing.T) {
		mockService := new(MockBorrowService)
		r := setupBorrowRouter(mockService, "member-1", models.RoleMember)

		req, _ := http.NewRequest(http.MethodGet, "/api/borrow-records/overdue", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
