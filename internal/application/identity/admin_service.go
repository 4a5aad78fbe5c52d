package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	errAdminNotFound    = shared.NewDomainError("ADMIN_NOT_FOUND", "Admin not found")
	errEmailTaken       = shared.NewDomainError("EMAIL_EXISTS", "An admin with this email already exists")
	errCannotModifySelf = shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot delete or demote your own account")
	errLastSuperAdmin   = shared.NewDomainError("LAST_SUPER_ADMIN", "The last superAdmin cannot be removed or demoted")
)

// AdminService manages admin accounts. Callers must hold the superAdmin role;
// the HTTP layer enforces that.
type AdminService struct {
	adminRepo identity.AdminRepository
	revoker   auth.TokenRevoker
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAdminService creates a new admin management service. tokenTTL bounds how
// long a revocation has to be remembered.
func NewAdminService(
	adminRepo identity.AdminRepository,
	revoker auth.TokenRevoker,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		revoker:   revoker,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// List returns a page of admins, optionally filtered by role
func (s *AdminService) List(ctx context.Context, input ListAdminsInput) (*AdminList, error) {
	filter := identity.AdminFilter{Page: input.Page, PageSize: input.PageSize}
	if input.Role != "" {
		role, err := identity.ParseRole(input.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = &role
	}

	admins, total, err := s.adminRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := &AdminList{Admins: make([]AdminInfo, 0, len(admins)), Total: total}
	for _, a := range admins {
		out.Admins = append(out.Admins, toAdminInfo(a))
	}
	return out, nil
}

// Get returns one admin
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*AdminInfo, error) {
	admin, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	info := toAdminInfo(admin)
	return &info, nil
}

// Create registers a new admin. Emails are unique case-insensitively.
func (s *AdminService) Create(ctx context.Context, input CreateAdminInput) (*AdminInfo, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.adminRepo.ExistsByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errEmailTaken
	}

	admin, err := identity.NewAdmin(input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin created",
		zap.String("admin_id", admin.ID.String()),
		zap.String("role", admin.Role.String()))

	info := toAdminInfo(admin)
	return &info, nil
}

// ChangeRole changes another admin's role. Admins cannot change their own
// role and the last superAdmin cannot be demoted.
func (s *AdminService) ChangeRole(ctx context.Context, input ChangeRoleInput) (*AdminInfo, error) {
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	if input.ActorID == input.AdminID {
		return nil, errCannotModifySelf
	}

	admin, err := s.find(ctx, input.AdminID)
	if err != nil {
		return nil, err
	}
	if admin.Role.Is(role) {
		info := toAdminInfo(admin)
		return &info, nil
	}
	if admin.IsSuperAdmin() {
		if err := s.ensureAnotherSuperAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if err := admin.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, admin.ID)

	s.logger.Info("Admin role changed",
		zap.String("admin_id", admin.ID.String()),
		zap.String("role", admin.Role.String()),
		zap.String("actor_id", input.ActorID.String()))

	info := toAdminInfo(admin)
	return &info, nil
}

// ResetPassword sets another admin's password and signs them out everywhere
func (s *AdminService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	admin, err := s.find(ctx, input.AdminID)
	if err != nil {
		return err
	}
	if err := admin.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return err
	}
	s.revokeSessions(ctx, admin.ID)

	s.logger.Info("Admin password reset", zap.String("admin_id", admin.ID.String()))
	return nil
}

// Delete removes an admin. Admins cannot delete themselves and the last
// superAdmin cannot be deleted.
func (s *AdminService) Delete(ctx context.Context, input DeleteAdminInput) error {
	if input.ActorID == input.AdminID {
		return errCannotModifySelf
	}

	admin, err := s.find(ctx, input.AdminID)
	if err != nil {
		return err
	}
	if admin.IsSuperAdmin() {
		if err := s.ensureAnotherSuperAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.adminRepo.Delete(ctx, admin.ID); err != nil {
		return err
	}
	s.revokeSessions(ctx, admin.ID)

	s.logger.Info("Admin deleted",
		zap.String("admin_id", admin.ID.String()),
		zap.String("actor_id", input.ActorID.String()))
	return nil
}

func (s *AdminService) find(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) ensureAnotherSuperAdmin(ctx context.Context) error {
	count, err := s.adminRepo.CountByRole(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count <= 1 {
		return errLastSuperAdmin
	}
	return nil
}

// revokeSessions is best effort; the change itself has already been stored
func (s *AdminService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if err := s.revoker.RevokeAdmin(ctx, id.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to revoke admin sessions",
			zap.String("admin_id", id.String()),
			zap.Error(err))
	}
}

// Bootstrap creates the first superAdmin. It refuses when one already exists.
func (s *AdminService) Bootstrap(ctx context.Context, input CreateAdminInput) (*AdminInfo, error) {
	count, err := s.adminRepo.CountByRole(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, shared.NewDomainError("ALREADY_BOOTSTRAPPED", "A superAdmin already exists")
	}
	input.Role = identity.RoleSuperAdmin.String()
	return s.Create(ctx, input)
}
