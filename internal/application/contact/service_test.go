package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/safespace/backend/internal/infrastructure/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendContact(ctx context.Context, c email.ContactDetails) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func TestService_Send(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendContact", mock.Anything, email.ContactDetails{
		Name:    "Efua",
		Email:   "efua@example.com",
		Subject: "Question",
		Message: "Do you offer evening sessions?",
	}).Return(nil)

	svc := NewService(sender, nil, zap.NewNop())
	err := svc.Send(context.Background(), MessageRequest{
		Name:    " Efua ",
		Email:   "Efua@Example.com",
		Subject: "Question",
		Message: "Do you offer evening sessions?\n",
	})

	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestService_Send_DeliveryFailure(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendContact", mock.Anything, mock.Anything).Return(errors.New("brevo: 500"))

	svc := NewService(sender, nil, zap.NewNop())
	err := svc.Send(context.Background(), MessageRequest{Name: "A", Email: "a@example.com", Message: "hi"})

	assert.ErrorIs(t, err, ErrEmailDelivery)
}
