// Package lifecycle owns order status transitions and their side effects:
// stock decrements on delivery and status emails after each commit.
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"botanyco/internal/models"
	"botanyco/internal/notify"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the slice of persistence the manager needs.
type Store interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	MarkDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error
	DecrementStock(ctx context.Context, productID primitive.ObjectID, quantity int) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// Notifier sends the status email; implementations never return, panic, or
// otherwise fail the transition.
type Notifier interface {
	Notify(ctx context.Context, order *models.Order, user *models.User, status models.OrderStatus) notify.Result
}

type Manager struct {
	store         Store
	notifier      Notifier
	errorLog      *log.Logger
	notifyTimeout time.Duration
}

func NewManager(store Store, notifier Notifier, errorLog *log.Logger) *Manager {
	return &Manager{
		store:         store,
		notifier:      notifier,
		errorLog:      errorLog,
		notifyTimeout: 30 * time.Second,
	}
}

// transitions is the exhaustive table: targets reachable from each state.
// Delivered and Cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:    {models.StatusProcessing, models.StatusShipped, models.StatusDelivered, models.StatusCancelled},
	models.StatusProcessing: {models.StatusShipped, models.StatusDelivered},
	models.StatusShipped:    {models.StatusDelivered},
	models.StatusDelivered:  {},
	models.StatusCancelled:  {},
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidateNewOrder checks the checkout payload: non-empty items, a complete
// shipping block, and the price identity
// totalPrice == itemsPrice + taxPrice + shippingPrice. The component prices
// themselves are trusted as supplied; only the sum is enforced, with decimal
// arithmetic so ordinary currency values compare exactly.
func ValidateNewOrder(o *models.Order) error {
	if len(o.OrderItems) == 0 {
		return fmt.Errorf("lifecycle: order has no items")
	}
	for i, item := range o.OrderItems {
		if item.Product.IsZero() || item.Quantity <= 0 {
			return fmt.Errorf("lifecycle: order item %d is invalid", i)
		}
	}
	s := o.ShippingInfo
	if strings.TrimSpace(s.Address) == "" || strings.TrimSpace(s.City) == "" ||
		strings.TrimSpace(s.PostalCode) == "" || strings.TrimSpace(s.Country) == "" ||
		strings.TrimSpace(s.PhoneNo) == "" {
		return fmt.Errorf("lifecycle: incomplete shipping info")
	}

	sum := decimal.NewFromFloat(o.ItemsPrice).
		Add(decimal.NewFromFloat(o.TaxPrice)).
		Add(decimal.NewFromFloat(o.ShippingPrice))
	if !sum.Equal(decimal.NewFromFloat(o.TotalPrice)) {
		return models.ErrPriceMismatch
	}
	return nil
}

// Create persists a new order and fires the Processing notification. The
// order is committed before the email is attempted; a failed email never
// undoes the order.
func (m *Manager) Create(ctx context.Context, order *models.Order, user *models.User) (notify.Result, error) {
	if err := ValidateNewOrder(order); err != nil {
		return notify.Result{}, err
	}

	order.User = user.ID
	order.OrderStatus = models.StatusPending
	order.PaidAt = time.Now()
	order.DeliveredAt = nil

	if err := m.store.InsertOrder(ctx, order); err != nil {
		return notify.Result{}, err
	}
	if err := m.store.ClearCart(ctx, user.ID); err != nil {
		m.errorLog.Printf("lifecycle: clear cart for %s: %v", user.ID.Hex(), err)
	}

	return m.notifyAfterCommit(order, user, models.StatusProcessing), nil
}

// SetStatus applies an admin transition to Processing, Shipped, or Delivered.
// Two phases: commit the mutation, then attempt the notification and report
// its outcome separately.
func (m *Manager) SetStatus(ctx context.Context, orderID primitive.ObjectID, target models.OrderStatus, user *models.User) (*models.Order, notify.Result, error) {
	if target != models.StatusProcessing && target != models.StatusShipped && target != models.StatusDelivered {
		return nil, notify.Result{}, fmt.Errorf("%w: %q is not a valid target", models.ErrInvalidTransition, target)
	}

	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notify.Result{}, err
	}
	if err := m.checkTransition(order.OrderStatus, target); err != nil {
		return nil, notify.Result{}, err
	}

	switch target {
	case models.StatusDelivered:
		m.decrementStock(ctx, order)
		now := time.Now()
		if err := m.store.MarkDelivered(ctx, orderID, now); err != nil {
			return nil, notify.Result{}, err
		}
		order.DeliveredAt = &now
	default:
		if err := m.store.SetOrderStatus(ctx, orderID, target); err != nil {
			return nil, notify.Result{}, err
		}
	}
	order.OrderStatus = target

	return order, m.notifyAfterCommit(order, user, target), nil
}

// Cancel is valid only while the order is still Pending; once it has been
// marked Processing, Shipped, or Delivered it can no longer be cancelled.
func (m *Manager) Cancel(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := m.checkTransition(order.OrderStatus, models.StatusCancelled); err != nil {
		return nil, err
	}
	if err := m.store.SetOrderStatus(ctx, orderID, models.StatusCancelled); err != nil {
		return nil, err
	}
	order.OrderStatus = models.StatusCancelled
	return order, nil
}

func (m *Manager) checkTransition(from, to models.OrderStatus) error {
	if from.Terminal() {
		return fmt.Errorf("%w: order is already %s", models.ErrTerminalState, from)
	}
	if !transitionAllowed(from, to) {
		return fmt.Errorf("%w: %s to %s", models.ErrInvalidTransition, from, to)
	}
	return nil
}

// decrementStock applies one independent $inc per item. A failed lookup is
// logged and the remaining items still get decremented; prior decrements are
// not rolled back.
func (m *Manager) decrementStock(ctx context.Context, order *models.Order) {
	for _, item := range order.OrderItems {
		if err := m.store.DecrementStock(ctx, item.Product, item.Quantity); err != nil {
			m.errorLog.Printf("lifecycle: decrement stock for product %s on order %s: %v",
				item.Product.Hex(), order.ID.Hex(), err)
		}
	}
}

// notifyAfterCommit runs phase two. The state change is already durable, so
// whatever happens here only shapes the advisory Result.
func (m *Manager) notifyAfterCommit(order *models.Order, user *models.User, status models.OrderStatus) notify.Result {
	if m.notifier == nil {
		return notify.Result{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.notifyTimeout)
	defer cancel()

	res := m.notifier.Notify(ctx, order, user, status)
	if !res.EmailSent && res.Err != "" {
		m.errorLog.Printf("lifecycle: notification for order %s (%s): %s", order.ID.Hex(), status, res.Err)
	}
	return res
}
