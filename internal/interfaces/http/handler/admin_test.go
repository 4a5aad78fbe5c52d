package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/safespace/backend/internal/application/identity"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAdmins(actor uuid.UUID) (*MockAdminService, http.Handler) {
	svc := new(MockAdminService)
	h := NewAdminHandler(svc)
	r := newTestRouter()
	g := r.Group("/admin/admins", asAdmin(actor, identity.RoleSuperAdmin.String()))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id/role", h.ChangeRole)
	g.PUT("/:id/password", h.ResetPassword)
	g.DELETE("/:id", h.Delete)
	return svc, r
}

func TestAdminHandler_List(t *testing.T) {
	svc, r := setupAdmins(uuid.New())
	svc.On("List", mock.Anything, identityapp.ListAdminsInput{Role: "superadmin", Page: 1, PageSize: 20}).
		Return(&identityapp.AdminList{
			Admins: []identityapp.AdminInfo{adminInfo(uuid.New(), identity.RoleSuperAdmin)},
			Total:  1,
		}, nil)

	w := doRequest(r, http.MethodGet, "/admin/admins?role=superadmin", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	var got []AdminResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "superAdmin", got[0].Role)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestAdminHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc, r := setupAdmins(uuid.New())
		id := uuid.New()
		info := adminInfo(id, identity.RoleAdmin)
		svc.On("Create", mock.Anything, identityapp.CreateAdminInput{
			Name:     "Efua Owusu",
			Email:    "efua@example.com",
			Password: "long-enough",
			Role:     "Admin",
		}).Return(&info, nil)

		w := doRequest(r, http.MethodPost, "/admin/admins", gin.H{
			"name": "Efua Owusu", "email": "efua@example.com", "password": "long-enough", "role": "Admin",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, r := setupAdmins(uuid.New())
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("EMAIL_EXISTS", "An admin with this email already exists"))

		w := doRequest(r, http.MethodPost, "/admin/admins", gin.H{
			"name": "Efua", "email": "efua@example.com", "password": "long-enough", "role": "admin",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeEnvelope(t, w).Error.Code)
	})
}

func TestAdminHandler_ChangeRole(t *testing.T) {
	actor := uuid.New()
	target := uuid.New()

	t.Run("passes actor", func(t *testing.T) {
		svc, r := setupAdmins(actor)
		info := adminInfo(target, identity.RoleSuperAdmin)
		svc.On("ChangeRole", mock.Anything, identityapp.ChangeRoleInput{ActorID: actor, AdminID: target, Role: "SUPERADMIN"}).
			Return(&info, nil)

		w := doRequest(r, http.MethodPut, "/admin/admins/"+target.String()+"/role", gin.H{"role": "SUPERADMIN"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("last superAdmin", func(t *testing.T) {
		svc, r := setupAdmins(actor)
		svc.On("ChangeRole", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("LAST_SUPER_ADMIN", "The last superAdmin cannot be removed or demoted"))

		w := doRequest(r, http.MethodPut, "/admin/admins/"+target.String()+"/role", gin.H{"role": "admin"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeBusinessRule, env.Error.Code)
		assert.Equal(t, "LAST_SUPER_ADMIN", env.Error.Reason)
	})
}

func TestAdminHandler_ResetPasswordAndDelete(t *testing.T) {
	actor := uuid.New()
	target := uuid.New()
	svc, r := setupAdmins(actor)
	svc.On("ResetPassword", mock.Anything, identityapp.ResetPasswordInput{AdminID: target, NewPassword: "fresh-password"}).
		Return(nil)
	svc.On("Delete", mock.Anything, identityapp.DeleteAdminInput{ActorID: actor, AdminID: target}).Return(nil)
	svc.On("Delete", mock.Anything, identityapp.DeleteAdminInput{ActorID: actor, AdminID: actor}).
		Return(shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot delete or demote your own account"))

	w := doRequest(r, http.MethodPut, "/admin/admins/"+target.String()+"/password", gin.H{"newPassword": "fresh-password"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodDelete, "/admin/admins/"+target.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodDelete, "/admin/admins/"+actor.String(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, http.MethodGet, "/admin/admins/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}
