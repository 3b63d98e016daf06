package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/api/dto"
	"libraryhub/internal/api/middleware"
	"libraryhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	svc service.MemberService
}

func NewMemberHandler(svc service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// RegisterRoutes wires the admin-gated membership reads.
func (h *MemberHandler) RegisterRoutes(members, groups *gin.RouterGroup) {
	members.GET("", middleware.RequireAdmin(), h.ListMembers)
	groups.GET("", middleware.RequireAdmin(), h.ListGroups)
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	members, err := h.svc.ListMembers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModels(members))
}

func (h *MemberHandler) ListGroups(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	groups, err := h.svc.ListGroups(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, groups)
}
