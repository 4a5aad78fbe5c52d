package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/safespace/backend/internal/application/identity"
	"github.com/safespace/backend/internal/interfaces/http/middleware"
)

// AdminService manages admin accounts
type AdminService interface {
	List(ctx context.Context, input identityapp.ListAdminsInput) (*identityapp.AdminList, error)
	Get(ctx context.Context, id uuid.UUID) (*identityapp.AdminInfo, error)
	Create(ctx context.Context, input identityapp.CreateAdminInput) (*identityapp.AdminInfo, error)
	ChangeRole(ctx context.Context, input identityapp.ChangeRoleInput) (*identityapp.AdminInfo, error)
	ResetPassword(ctx context.Context, input identityapp.ResetPasswordInput) error
	Delete(ctx context.Context, input identityapp.DeleteAdminInput) error
}

// AdminHandler serves superAdmin account management
type AdminHandler struct {
	BaseHandler
	service AdminService
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(service AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// List handles GET /admin/admins
func (h *AdminHandler) List(c *gin.Context) {
	var q ListAdminsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	list, err := h.service.List(c.Request.Context(), identityapp.ListAdminsInput{
		Role:     q.Role,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]AdminResponse, len(list.Admins))
	for i, a := range list.Admins {
		out[i] = toAdminResponse(a)
	}
	h.SuccessWithMeta(c, out, list.Total, q.Page, q.PageSize)
}

// Get handles GET /admin/admins/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAdminResponse(*a))
}

// Create handles POST /admin/admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	a, err := h.service.Create(c.Request.Context(), identityapp.CreateAdminInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAdminResponse(*a))
}

// ChangeRole handles PUT /admin/admins/:id/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	a, err := h.service.ChangeRole(c.Request.Context(), identityapp.ChangeRoleInput{
		ActorID: middleware.GetAdminID(c),
		AdminID: id,
		Role:    req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAdminResponse(*a))
}

// ResetPassword handles PUT /admin/admins/:id/password
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), identityapp.ResetPasswordInput{
		AdminID:     id,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageResponse{Message: "Password reset"})
}

// Delete handles DELETE /admin/admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), identityapp.DeleteAdminInput{
		ActorID: middleware.GetAdminID(c),
		AdminID: id,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
