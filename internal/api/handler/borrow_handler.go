package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/middleware"
	"libraryhub/internal/api/models"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type BorrowHandler struct {
	svc service.BorrowService
}

func NewBorrowHandler(svc service.BorrowService) *BorrowHandler {
	return &BorrowHandler{svc: svc}
}

func (h *BorrowHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)

	// static route before the :record_id wildcard
	rg.GET("/overdue", middleware.RequireAdmin(), h.ListOverdue)

	rg.GET("/:record_id", h.Get)
	rg.POST("/:record_id/return", h.Return)
	rg.POST("/:record_id/overdue", middleware.RequireAdmin(), h.Overdue)
}

// Create opens a borrow. Members may only borrow for themselves; an omitted
// member_id defaults to the caller. Admins may borrow on any member's behalf.
func (h *BorrowHandler) Create(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := middleware.CallerRole(c)

	var in dto.CreateBorrowDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID := in.MemberID
	if memberID == "" {
		memberID = callerID
	}
	if role != models.RoleAdmin && memberID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "members can only borrow for themselves"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.svc.Borrow(ctx, service.BorrowRequest{
		BookID:     in.BookID,
		MemberID:   memberID,
		BorrowDate: in.BorrowDate,
		DueDate:    in.DueDate,
	})
	if err != nil {
		c.JSON(statusForBorrowError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromBorrowRecordModel(*rec))
}

// List returns all records for admins, the caller's own for members.
func (h *BorrowHandler) List(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := middleware.CallerRole(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var (
		recs []models.BorrowRecord
		err  error
	)
	if role == models.RoleAdmin {
		recs, err = h.svc.List(ctx)
	} else {
		recs, err = h.svc.ListByMember(ctx, callerID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FromBorrowRecordModels(recs))
}

func (h *BorrowHandler) Get(c *gin.Context) {
	rec, ok := h.loadOwnedRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromBorrowRecordModel(*rec))
}

// Return invokes the BORROWED/OVERDUE -> RETURNED transition. Idempotent:
// returning an already-returned record answers 200 with the unchanged record.
func (h *BorrowHandler) Return(c *gin.Context) {
	rec, ok := h.loadOwnedRecord(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.MarkReturned(ctx, rec.ID)
	if err != nil {
		c.JSON(statusForBorrowError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBorrowRecordModel(*updated))
}

// Overdue invokes the BORROWED -> OVERDUE transition (admin only). A record
// that is not past due, or not BORROWED, comes back unchanged.
func (h *BorrowHandler) Overdue(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.MarkOverdue(ctx, id)
	if err != nil {
		c.JSON(statusForBorrowError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBorrowRecordModel(*updated))
}

func (h *BorrowHandler) ListOverdue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recs, err := h.svc.ListOverdue(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromBorrowRecordModels(recs))
}

// loadOwnedRecord fetches the record and enforces ownership: members only
// reach their own records, admins reach all. Writes the error response and
// returns ok=false on any failure.
func (h *BorrowHandler) loadOwnedRecord(c *gin.Context) (*models.BorrowRecord, bool) {
	callerID, authed := middleware.CallerID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, false
	}
	role, _ := middleware.CallerRole(c)

	id, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(statusForBorrowError(err), gin.H{"error": err.Error()})
		return nil, false
	}

	if role != models.RoleAdmin && rec.MemberID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot operate on another member's borrow record"})
		return nil, false
	}
	return rec, true
}

func statusForBorrowError(err error) int {
	switch {
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
