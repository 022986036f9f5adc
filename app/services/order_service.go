package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shashiranjanraj/shopadmin/app/models"
	"github.com/shashiranjanraj/shopadmin/app/repositories"
	"github.com/shashiranjanraj/shopadmin/pkg/event"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
	"github.com/shashiranjanraj/shopadmin/pkg/validate"
	"github.com/shopspring/decimal"
)

// Events fired by OrderService.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusUpdated = "order.status_updated"
)

// OrderInput is the checkout payload.
type OrderInput struct {
	FirstName     string          `json:"firstName"     validate:"required,max=100"`
	LastName      string          `json:"lastName"      validate:"required,max=100"`
	ContactNumber string          `json:"contactNumber" validate:"required,max=30"`
	Address1      string          `json:"address1"      validate:"required,max=255"`
	Address2      string          `json:"address2"      validate:"max=255"`
	City          string          `json:"city"          validate:"required,max=100"`
	Province      string          `json:"province"      validate:"required,max=100"`
	PostalCode    string          `json:"postalCode"    validate:"required,max=20"`
	SpecialNote   string          `json:"specialNote"`
	Subtotal      decimal.Decimal `json:"subtotal"      validate:"gte=0"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"   validate:"gte=0"`
	Discount      decimal.Decimal `json:"discount"      validate:"gte=0"`
	Total         decimal.Decimal `json:"total"         validate:"gte=0"`
}

// StatusChange is the payload of EventOrderStatusUpdated.
type StatusChange struct {
	OrderID string `json:"orderID"`
	Status  string `json:"order_status"`
}

type OrderService struct {
	orders      *repositories.OrderRepository
	seq         *Sequencer
	events      *event.Bus
	maxAttempts int
}

func NewOrderService(orders *repositories.OrderRepository, seq *Sequencer, events *event.Bus, maxAttempts int) *OrderService {
	return &OrderService{
		orders:      orders,
		seq:         seq,
		events:      events,
		maxAttempts: max(maxAttempts, 1),
	}
}

// Place stores a new Pending order under the next identifier for today.
// A transaction that lost a race (unique key, deadlock or serialization
// failure) wrote nothing, so it is simply run again, up to maxAttempts times.
func (s *OrderService) Place(ctx context.Context, in OrderInput) (models.Order, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Order{}, invalid(validate.Join(errs))
	}
	log := logger.WithCtx(ctx)

	var (
		order models.Order
		err   error
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		order, err = s.placeOnce(ctx, in)
		if err == nil || !isRetryable(err) {
			break
		}
		if attempt < s.maxAttempts {
			metrics.OrderRetries.Inc()
			log.Warn("order placement conflict, retrying", "attempt", attempt, "error", err)
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrSequencing):
		metrics.OrdersPlaced.WithLabelValues("sequencing_error").Inc()
		return models.Order{}, err
	default:
		metrics.OrdersPlaced.WithLabelValues("insert_error").Inc()
		return models.Order{}, persistence(ErrPlacement, err)
	}

	metrics.OrdersPlaced.WithLabelValues("ok").Inc()
	log.Info("order placed", "order_id", order.OrderID)
	s.events.Fire(EventOrderPlaced, order)
	return order, nil
}

func (s *OrderService) placeOnce(ctx context.Context, in OrderInput) (models.Order, error) {
	var order models.Order
	err := s.orders.Transaction(ctx, func(tx *repositories.OrderRepository) error {
		seq, err := s.seq.Next(ctx, tx)
		if err != nil {
			return err
		}
		order = in.model(seq)
		return tx.Create(ctx, &order)
	})
	return order, err
}

func (in OrderInput) model(seq Sequence) models.Order {
	var note *string
	if n := strings.TrimSpace(in.SpecialNote); n != "" {
		note = &n
	}
	return models.Order{
		OrderID:       seq.ID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		ContactNumber: in.ContactNumber,
		Address1:      in.Address1,
		Address2:      in.Address2,
		City:          in.City,
		Province:      in.Province,
		PostalCode:    in.PostalCode,
		SpecialNote:   note,
		Subtotal:      in.Subtotal,
		DeliveryFee:   in.DeliveryFee,
		Discount:      in.Discount,
		Total:         in.Total,
		Status:        models.StatusPending,
		OrderDate:     seq.At,
		Day:           seq.Day,
		Seq:           seq.Seq,
	}
}

// List returns every order in insertion order.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	return orders, nil
}

// ListByStatus returns the orders in one status.
func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	orders, err := s.orders.ByStatus(ctx, status)
	if err != nil {
		return nil, persistence(ErrPersistence, err)
	}
	return orders, nil
}

// UpdateStatus moves the order to status. The status is checked before the
// order is looked up, so an invalid value never touches the row.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (int64, error) {
	if !models.ValidStatus(status) {
		return 0, ErrInvalidStatus
	}
	if _, err := s.orders.FindByOrderID(ctx, orderID); err != nil {
		if isNotFound(err) {
			return 0, ErrOrderNotFound
		}
		return 0, persistence(ErrPersistence, err)
	}

	affected, err := s.orders.SetStatus(ctx, orderID, status)
	if err != nil {
		return 0, persistence(ErrPersistence, err)
	}

	logger.WithCtx(ctx).Info("order status updated", "order_id", orderID, "status", status)
	s.events.Fire(EventOrderStatusUpdated, StatusChange{OrderID: orderID, Status: status})
	return affected, nil
}
