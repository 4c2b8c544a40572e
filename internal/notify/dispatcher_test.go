package notify

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"botanyco/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type fakeRenderer struct {
	data []byte
	err  error
}

func (r *fakeRenderer) Render(_ *models.Order, _ *models.User) ([]byte, error) {
	return r.data, r.err
}

func fixtureOrder() (*models.Order, *models.User) {
	order := &models.Order{
		ID: primitive.NewObjectID(),
		OrderItems: []models.OrderItem{
			{Product: primitive.NewObjectID(), Name: "Peace Lily", Price: 100, Quantity: 2},
			{Product: primitive.NewObjectID(), Name: "Fern", Price: 45.5, Quantity: 1},
		},
		ShippingInfo: models.ShippingInfo{
			Address:    "12 Garden Row",
			City:       "Manila",
			PostalCode: "1000",
			Country:    "Philippines",
			PhoneNo:    "555-0101",
		},
		ItemsPrice:    245.5,
		TaxPrice:      10,
		ShippingPrice: 25,
		TotalPrice:    280.5,
		PaymentInfo:   models.PaymentInfo{ID: "pi_1", Status: models.PaymentSucceeded},
		OrderStatus:   models.StatusProcessing,
		PaidAt:        time.Now(),
	}
	user := &models.User{ID: primitive.NewObjectID(), Name: "Rosa Petal", Email: "rosa@example.com"}
	return order, user
}

func newTestDispatcher(sender Sender, receipts ReceiptRenderer) *Dispatcher {
	return NewDispatcher(sender, receipts, log.New(io.Discard, "", 0))
}

func TestNotifyContentContract(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, &fakeRenderer{data: []byte("%PDF-fake")})
	order, user := fixtureOrder()

	res := d.Notify(context.Background(), order, user, models.StatusProcessing)
	require.True(t, res.EmailSent)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, user.Email, msg.To)
	assert.Contains(t, msg.Subject, order.ID.Hex())
	assert.Contains(t, msg.Subject, "Processing")

	// Body carries order id, status, itemized lines, address, and total.
	assert.Contains(t, msg.HTML, order.ID.Hex())
	assert.Contains(t, msg.HTML, "Processing")
	assert.Contains(t, msg.HTML, "Peace Lily")
	assert.Contains(t, msg.HTML, "100.00")
	assert.Contains(t, msg.HTML, "200.00")
	assert.Contains(t, msg.HTML, "Fern")
	assert.Contains(t, msg.HTML, "12 Garden Row")
	assert.Contains(t, msg.HTML, "Manila")
	assert.Contains(t, msg.HTML, "280.50")

	require.NotNil(t, msg.Attachment)
	assert.Equal(t, "receipt-"+order.ID.Hex()+".pdf", msg.Attachment.Name)
	assert.Equal(t, []byte("%PDF-fake"), msg.Attachment.Data)
}

func TestNotifyEveryTemplateStatus(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusDelivered} {
		t.Run(status.String(), func(t *testing.T) {
			sender := &fakeSender{}
			d := newTestDispatcher(sender, nil)
			order, user := fixtureOrder()

			res := d.Notify(context.Background(), order, user, status)
			assert.True(t, res.EmailSent)
			require.Len(t, sender.sent, 1)
			assert.Contains(t, sender.sent[0].HTML, status.String())
		})
	}
}

func TestNotifyUnhandledStatusIsNoOp(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusPending, models.StatusCancelled} {
		sender := &fakeSender{}
		d := newTestDispatcher(sender, nil)
		order, user := fixtureOrder()

		res := d.Notify(context.Background(), order, user, status)
		assert.False(t, res.EmailSent, status)
		assert.Empty(t, res.Err, status)
		assert.Empty(t, sender.sent, status)
	}
}

func TestNotifyReceiptFailureSendsWithoutAttachment(t *testing.T) {
	sender := &fakeSender{}
	d := newTestDispatcher(sender, &fakeRenderer{err: errors.New("layout engine unavailable")})
	order, user := fixtureOrder()

	res := d.Notify(context.Background(), order, user, models.StatusDelivered)
	assert.True(t, res.EmailSent)
	require.Len(t, sender.sent, 1)
	assert.Nil(t, sender.sent[0].Attachment)
}

func TestNotifySendFailureIsCaptured(t *testing.T) {
	d := newTestDispatcher(&fakeSender{err: errors.New("smtp: connection refused")}, nil)
	order, user := fixtureOrder()

	res := d.Notify(context.Background(), order, user, models.StatusShipped)
	assert.False(t, res.EmailSent)
	assert.Contains(t, res.Err, "connection refused")
}
