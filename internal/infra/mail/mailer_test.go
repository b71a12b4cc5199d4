package mail_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/infra/mail"
	"storefront/internal/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQueueMailer_Send(t *testing.T) {
	tests := []struct {
		name       string
		msg        mail.Message
		setupMocks func(*mocks.MockPublisher)
		wantErr    error
		anyErr     bool
	}{
		{
			name: "queued",
			msg:  mail.Message{To: "a@b.c", Subject: "hi", Body: "x"},
			setupMocks: func(p *mocks.MockPublisher) {
				p.On("Publish", mock.Anything, mail.RoutingKey, mail.Message{To: "a@b.c", Subject: "hi", Body: "x"}).Return(nil)
			},
		},
		{
			name:       "missing recipient",
			msg:        mail.Message{Subject: "hi"},
			setupMocks: func(p *mocks.MockPublisher) {},
			wantErr:    mail.ErrInvalidMessage,
		},
		{
			name: "broker failure",
			msg:  mail.Message{To: "a@b.c", Subject: "hi"},
			setupMocks: func(p *mocks.MockPublisher) {
				p.On("Publish", mock.Anything, mail.RoutingKey, mock.Anything).Return(errors.New("closed"))
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := new(mocks.MockPublisher)
			tt.setupMocks(pub)

			err := mail.NewQueueMailer(pub).Send(context.Background(), tt.msg)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			pub.AssertExpectations(t)
		})
	}
}

func TestOrderConfirmation(t *testing.T) {
	o := &domain.Order{
		ID:     12,
		Email:  "buyer@example.com",
		Amount: decimal.RequireFromString("1000"),
		Products: []domain.OrderItem{
			{ProductID: 1, Quantity: 2},
		},
		ShippingAddress: domain.ShippingAddress{Address: "1 Main St", City: "Pune", State: "MH", Pincode: "411001"},
		PaymentDetails:  domain.PaymentDetails{TransactionID: "T123"},
	}

	msg := mail.OrderConfirmation(o)
	assert.Equal(t, "buyer@example.com", msg.To)
	assert.Equal(t, "Order #12 confirmed", msg.Subject)
	assert.Contains(t, msg.Body, "1000.00")
	assert.Contains(t, msg.Body, "T123")
	assert.Contains(t, msg.Body, "Pune, MH 411001")
}
