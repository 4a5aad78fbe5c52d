package handler

import (
	"context"

	"github.com/google/uuid"
	bookingapp "github.com/safespace/backend/internal/application/booking"
	contactapp "github.com/safespace/backend/internal/application/contact"
	contentapp "github.com/safespace/backend/internal/application/content"
	identityapp "github.com/safespace/backend/internal/application/identity"
	pricingapp "github.com/safespace/backend/internal/application/pricing"
	"github.com/safespace/backend/internal/domain/pricing"
	"github.com/stretchr/testify/mock"
)

type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Check(ctx context.Context, input pricingapp.CheckInput) (*pricing.PriceQuote, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PriceQuote), args.Error(1)
}

func (m *MockPricingService) Packages() []pricingapp.PackageInfo {
	args := m.Called()
	return args.Get(0).([]pricingapp.PackageInfo)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Submit(ctx context.Context, input bookingapp.SubmitInput) (*bookingapp.SubmitResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingapp.SubmitResult), args.Error(1)
}

func (m *MockBookingService) Verify(ctx context.Context, reference string) (*bookingapp.VerifyResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingapp.VerifyResult), args.Error(1)
}

func (m *MockBookingService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	return m.Called(ctx, body, signature).Error(0)
}

func (m *MockBookingService) List(ctx context.Context, input bookingapp.ListBookingsInput) ([]*bookingapp.BookingResponse, int64, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*bookingapp.BookingResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingService) Get(ctx context.Context, id uuid.UUID) (*bookingapp.BookingResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingapp.BookingResponse), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) list(ctx context.Context, method string, input contentapp.ListPostsInput) ([]contentapp.PostSummary, int64, error) {
	args := m.MethodCalled(method, ctx, input)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]contentapp.PostSummary), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostService) post(args mock.Arguments) (*contentapp.PostResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.PostResponse), args.Error(1)
}

func (m *MockPostService) ListPublished(ctx context.Context, input contentapp.ListPostsInput) ([]contentapp.PostSummary, int64, error) {
	return m.list(ctx, "ListPublished", input)
}

func (m *MockPostService) GetPublished(ctx context.Context, slug string) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, slug))
}

func (m *MockPostService) List(ctx context.Context, input contentapp.ListPostsInput) ([]contentapp.PostSummary, int64, error) {
	return m.list(ctx, "List", input)
}

func (m *MockPostService) Get(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) Create(ctx context.Context, req contentapp.PostRequest) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, req))
}

func (m *MockPostService) Update(ctx context.Context, id uuid.UUID, req contentapp.PostRequest) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, id, req))
}

func (m *MockPostService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostService) Publish(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) Unpublish(ctx context.Context, id uuid.UUID) (*contentapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) UploadImage(ctx context.Context, input contentapp.UploadImageInput) (*contentapp.UploadedImage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contentapp.UploadedImage), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input identityapp.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthService) GetCurrentAdmin(ctx context.Context, adminID uuid.UUID) (*identityapp.AdminInfo, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AdminInfo), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, input identityapp.ChangePasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) info(args mock.Arguments) (*identityapp.AdminInfo, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AdminInfo), args.Error(1)
}

func (m *MockAdminService) List(ctx context.Context, input identityapp.ListAdminsInput) (*identityapp.AdminList, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AdminList), args.Error(1)
}

func (m *MockAdminService) Get(ctx context.Context, id uuid.UUID) (*identityapp.AdminInfo, error) {
	return m.info(m.Called(ctx, id))
}

func (m *MockAdminService) Create(ctx context.Context, input identityapp.CreateAdminInput) (*identityapp.AdminInfo, error) {
	return m.info(m.Called(ctx, input))
}

func (m *MockAdminService) ChangeRole(ctx context.Context, input identityapp.ChangeRoleInput) (*identityapp.AdminInfo, error) {
	return m.info(m.Called(ctx, input))
}

func (m *MockAdminService) ResetPassword(ctx context.Context, input identityapp.ResetPasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAdminService) Delete(ctx context.Context, input identityapp.DeleteAdminInput) error {
	return m.Called(ctx, input).Error(0)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Send(ctx context.Context, req contactapp.MessageRequest) error {
	return m.Called(ctx, req).Error(0)
}
