package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/auth"
	"github.com/safespace/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// dummyHash is compared against on unknown emails so both paths pay the bcrypt cost
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password-1"), bcrypt.DefaultCost)

// AuthService handles admin authentication
type AuthService struct {
	adminRepo  identity.AdminRepository
	jwtService *auth.JWTService
	revoker    auth.TokenRevoker
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.AdminRepository,
	jwtService *auth.JWTService,
	revoker auth.TokenRevoker,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		revoker:    revoker,
		logger:     logger,
	}
}

// Login authenticates an admin by email and password and issues a bearer token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email), zap.String("ip", input.IP))

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load admin during login", zap.Error(err))
			telemetry.RecordError(span, err)
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(input.Password))
		s.logger.Warn("Login attempt for unknown email", zap.String("email", email))
		return nil, errInvalidCredentials
	}

	if !admin.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("admin_id", admin.ID.String()))
		return nil, errInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		AdminID: admin.ID,
		Email:   admin.Email,
		Name:    admin.Name,
		Role:    admin.Role.String(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	admin.RecordLogin()
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		// Don't fail the login - just log the error
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrAdminID, admin.ID.String())
	s.logger.Info("Admin logged in", zap.String("admin_id", admin.ID.String()))

	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Admin:       toAdminInfo(admin),
	}, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	ttl := time.Until(input.ExpiresAt)
	if err := s.revoker.RevokeToken(ctx, input.TokenID, ttl); err != nil {
		s.logger.Error("Failed to revoke token on logout", zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("admin_id", input.AdminID.String()))
	return nil
}

// GetCurrentAdmin returns the signed-in admin's account
func (s *AuthService) GetCurrentAdmin(ctx context.Context, adminID uuid.UUID) (*AdminInfo, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ADMIN_NOT_FOUND", "Admin not found")
		}
		return nil, err
	}
	info := toAdminInfo(admin)
	return &info, nil
}

// ChangePassword changes the caller's password and revokes every token issued
// before the change, including the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	admin, err := s.adminRepo.FindByID(ctx, input.AdminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("ADMIN_NOT_FOUND", "Admin not found")
		}
		return err
	}

	if err := admin.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		s.logger.Error("Failed to update admin after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if err := s.revoker.RevokeAdmin(ctx, admin.ID.String(), s.jwtService.GetExpiration()); err != nil {
		s.logger.Error("Failed to revoke sessions after password change", zap.Error(err))
	}

	s.logger.Info("Admin password changed", zap.String("admin_id", admin.ID.String()))
	return nil
}

// ErrTokenRevoked is returned by Authenticate for logged-out or superseded tokens
var ErrTokenRevoked = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")

// Authenticate validates a bearer token and checks it against revocations.
// Revocation lookups that fail are logged and treated as not revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("Token revocation check failed", zap.Error(err))
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	revoked, err = s.revoker.IsAdminRevoked(ctx, claims.AdminID, claims.IssuedAtTime())
	if err != nil {
		s.logger.Warn("Admin revocation check failed", zap.Error(err))
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
