package receipt

import (
	"fmt"
	"testing"
	"time"

	"botanyco/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fixtureOrder(items int) (*models.Order, *models.User) {
	order := &models.Order{
		ID: primitive.NewObjectID(),
		ShippingInfo: models.ShippingInfo{
			Address:    "12 Garden Row",
			City:       "Manila",
			PostalCode: "1000",
			Country:    "Philippines",
			PhoneNo:    "555-0101",
		},
		ItemsPrice:    200,
		TaxPrice:      10,
		ShippingPrice: 25,
		TotalPrice:    235,
		PaymentInfo:   models.PaymentInfo{ID: "pi_1", Status: models.PaymentSucceeded},
		OrderStatus:   models.StatusDelivered,
		PaidAt:        time.Now(),
	}
	for i := 0; i < items; i++ {
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			Product:  primitive.NewObjectID(),
			Name:     fmt.Sprintf("Potted plant %d", i+1),
			Price:    19.99,
			Quantity: 2,
		})
	}
	user := &models.User{Name: "Rosa Petal", Email: "rosa@example.com"}
	return order, user
}

func TestRenderProducesPDF(t *testing.T) {
	order, user := fixtureOrder(3)
	now := time.Now()
	order.DeliveredAt = &now

	data, err := NewRenderer().Render(order, user)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderUnpaidOrder(t *testing.T) {
	order, user := fixtureOrder(1)
	order.PaymentInfo.Status = "pending"
	order.OrderStatus = models.StatusPending

	data, err := NewRenderer().Render(order, user)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderPaginatesLongOrders(t *testing.T) {
	order, user := fixtureOrder(80)

	data, err := NewRenderer().Render(order, user)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
