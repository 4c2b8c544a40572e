package lifecycle

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"botanyco/internal/models"
	"botanyco/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	orders        map[primitive.ObjectID]models.Order
	stock         map[primitive.ObjectID]int
	failDecrement map[primitive.ObjectID]bool
	cartsCleared  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:        make(map[primitive.ObjectID]models.Order),
		stock:         make(map[primitive.ObjectID]int),
		failDecrement: make(map[primitive.ObjectID]bool),
	}
}

func (s *fakeStore) InsertOrder(_ context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.orders[o.ID] = *o
	return nil
}

func (s *fakeStore) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	return &o, nil
}

func (s *fakeStore) SetOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	o, ok := s.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.OrderStatus = status
	s.orders[id] = o
	return nil
}

func (s *fakeStore) MarkDelivered(_ context.Context, id primitive.ObjectID, at time.Time) error {
	o, ok := s.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	o.OrderStatus = models.StatusDelivered
	o.DeliveredAt = &at
	s.orders[id] = o
	return nil
}

func (s *fakeStore) DecrementStock(_ context.Context, productID primitive.ObjectID, quantity int) error {
	if s.failDecrement[productID] {
		return models.ErrProductNotFound
	}
	s.stock[productID] -= quantity
	return nil
}

func (s *fakeStore) ClearCart(_ context.Context, _ primitive.ObjectID) error {
	s.cartsCleared++
	return nil
}

type fakeNotifier struct {
	calls  []models.OrderStatus
	result notify.Result
}

func (n *fakeNotifier) Notify(_ context.Context, _ *models.Order, _ *models.User, status models.OrderStatus) notify.Result {
	n.calls = append(n.calls, status)
	return n.result
}

func discardLog() *log.Logger { return log.New(io.Discard, "", 0) }

func testUser() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Name: "Rosa Petal", Email: "rosa@example.com"}
}

func testOrder(productID primitive.ObjectID) *models.Order {
	return &models.Order{
		OrderItems: []models.OrderItem{
			{Product: productID, Name: "Peace Lily", Price: 100, Quantity: 2},
		},
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
		PaymentInfo:   models.PaymentInfo{ID: "pi_test", Status: models.PaymentSucceeded},
	}
}

func TestCreatePersistsThenNotifies(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{result: notify.Result{EmailSent: true}}
	m := NewManager(store, notifier, discardLog())
	user := testUser()
	order := testOrder(primitive.NewObjectID())

	result, err := m.Create(context.Background(), order, user)
	require.NoError(t, err)

	saved, ok := store.orders[order.ID]
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, saved.OrderStatus)
	assert.Equal(t, user.ID, saved.User)
	assert.False(t, saved.PaidAt.IsZero())
	assert.Nil(t, saved.DeliveredAt)
	assert.Equal(t, []models.OrderStatus{models.StatusProcessing}, notifier.calls)
	assert.True(t, result.EmailSent)
	assert.Equal(t, 1, store.cartsCleared)
}

func TestCreatePriceRoundTrip(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, nil, discardLog())
	order := testOrder(primitive.NewObjectID())

	_, err := m.Create(context.Background(), order, testUser())
	require.NoError(t, err)

	saved := store.orders[order.ID]
	assert.Equal(t, 200.0, saved.ItemsPrice)
	assert.Equal(t, 10.0, saved.TaxPrice)
	assert.Equal(t, 25.0, saved.ShippingPrice)
	assert.Equal(t, 235.0, saved.TotalPrice)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Order)
		wantErr error
	}{
		{"no items", func(o *models.Order) { o.OrderItems = nil }, nil},
		{"zero quantity", func(o *models.Order) { o.OrderItems[0].Quantity = 0 }, nil},
		{"missing address", func(o *models.Order) { o.ShippingInfo.Address = "" }, nil},
		{"missing phone", func(o *models.Order) { o.ShippingInfo.PhoneNo = " " }, nil},
		{"price mismatch", func(o *models.Order) { o.TotalPrice = 300 }, models.ErrPriceMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			m := NewManager(store, nil, discardLog())
			order := testOrder(primitive.NewObjectID())
			tt.mutate(order)

			_, err := m.Create(context.Background(), order, testUser())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, store.orders, "nothing may be persisted on validation failure")
		})
	}
}

func TestSetStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr error
	}{
		{"pending to processing", models.StatusPending, models.StatusProcessing, nil},
		{"processing to shipped", models.StatusProcessing, models.StatusShipped, nil},
		{"shipped to delivered", models.StatusShipped, models.StatusDelivered, nil},
		{"processing straight to delivered", models.StatusProcessing, models.StatusDelivered, nil},
		{"delivered is terminal", models.StatusDelivered, models.StatusShipped, models.ErrTerminalState},
		{"delivered repeat rejected", models.StatusDelivered, models.StatusDelivered, models.ErrTerminalState},
		{"cancelled is terminal", models.StatusCancelled, models.StatusProcessing, models.ErrTerminalState},
		{"shipped cannot regress", models.StatusShipped, models.StatusProcessing, models.ErrInvalidTransition},
		{"cancel is not a set-status target", models.StatusPending, models.StatusCancelled, models.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			m := NewManager(store, &fakeNotifier{result: notify.Result{EmailSent: true}}, discardLog())

			order := testOrder(primitive.NewObjectID())
			order.ID = primitive.NewObjectID()
			order.OrderStatus = tt.from
			store.orders[order.ID] = *order

			updated, _, err := m.SetStatus(context.Background(), order.ID, tt.to, testUser())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, store.orders[order.ID].OrderStatus, "status must not change on a rejected transition")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.OrderStatus)
			assert.Equal(t, tt.to, store.orders[order.ID].OrderStatus)
		})
	}
}

func TestDeliveredSideEffects(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{result: notify.Result{EmailSent: true}}
	m := NewManager(store, notifier, discardLog())

	productID := primitive.NewObjectID()
	store.stock[productID] = 10

	order := testOrder(productID)
	order.ID = primitive.NewObjectID()
	order.OrderStatus = models.StatusShipped
	store.orders[order.ID] = *order

	updated, result, err := m.SetStatus(context.Background(), order.ID, models.StatusDelivered, testUser())
	require.NoError(t, err)

	assert.Equal(t, 8, store.stock[productID], "stock decremented by the ordered quantity, once")
	require.NotNil(t, updated.DeliveredAt)
	saved := store.orders[order.ID]
	require.NotNil(t, saved.DeliveredAt)
	assert.Equal(t, models.StatusDelivered, saved.OrderStatus)
	assert.Equal(t, []models.OrderStatus{models.StatusDelivered}, notifier.calls)
	assert.True(t, result.EmailSent)
}

func TestDeliveredPartialDecrementContinues(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, nil, discardLog())

	missing := primitive.NewObjectID()
	present := primitive.NewObjectID()
	store.failDecrement[missing] = true
	store.stock[present] = 5

	order := testOrder(missing)
	order.OrderItems = append(order.OrderItems, models.OrderItem{
		Product: present, Name: "Fern", Price: 50, Quantity: 3,
	})
	order.ID = primitive.NewObjectID()
	order.OrderStatus = models.StatusProcessing
	store.orders[order.ID] = *order

	_, _, err := m.SetStatus(context.Background(), order.ID, models.StatusDelivered, testUser())
	require.NoError(t, err, "a failed per-item decrement never fails the transition")
	assert.Equal(t, 2, store.stock[present], "remaining items are still decremented")
	assert.Equal(t, models.StatusDelivered, store.orders[order.ID].OrderStatus)
}

func TestNotificationFailureDoesNotRevertStatus(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{result: notify.Result{EmailSent: false, Err: "smtp: connection refused"}}
	m := NewManager(store, notifier, discardLog())

	order := testOrder(primitive.NewObjectID())
	order.ID = primitive.NewObjectID()
	order.OrderStatus = models.StatusPending
	store.orders[order.ID] = *order

	updated, result, err := m.SetStatus(context.Background(), order.ID, models.StatusShipped, testUser())
	require.NoError(t, err, "the status change succeeded and must report success")
	assert.Equal(t, models.StatusShipped, updated.OrderStatus)
	assert.Equal(t, models.StatusShipped, store.orders[order.ID].OrderStatus)
	assert.False(t, result.EmailSent)
	assert.NotEmpty(t, result.Err)
}

func TestSetStatusOrderNotFound(t *testing.T) {
	m := NewManager(newFakeStore(), nil, discardLog())
	_, _, err := m.SetStatus(context.Background(), primitive.NewObjectID(), models.StatusShipped, testUser())
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		wantErr error
	}{
		{"pending can cancel", models.StatusPending, nil},
		{"processing cannot cancel", models.StatusProcessing, models.ErrInvalidTransition},
		{"shipped cannot cancel", models.StatusShipped, models.ErrInvalidTransition},
		{"delivered cannot cancel", models.StatusDelivered, models.ErrTerminalState},
		{"cancelled cannot cancel again", models.StatusCancelled, models.ErrTerminalState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			m := NewManager(store, nil, discardLog())

			order := testOrder(primitive.NewObjectID())
			order.ID = primitive.NewObjectID()
			order.OrderStatus = tt.from
			store.orders[order.ID] = *order

			updated, err := m.Cancel(context.Background(), order.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, updated.OrderStatus)
			assert.Equal(t, models.StatusCancelled, store.orders[order.ID].OrderStatus)
		})
	}
}

func TestValidateNewOrderDecimalSafety(t *testing.T) {
	// 0.1 + 0.2 style sums must not fail the identity check.
	order := testOrder(primitive.NewObjectID())
	order.ItemsPrice = 0.1
	order.TaxPrice = 0.2
	order.ShippingPrice = 0
	order.TotalPrice = 0.3

	assert.NoError(t, ValidateNewOrder(order))
}

func TestCreateWithoutNotifierStillSucceeds(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, nil, discardLog())
	order := testOrder(primitive.NewObjectID())

	result, err := m.Create(context.Background(), order, testUser())
	require.NoError(t, err)
	assert.False(t, result.EmailSent)
}
