package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	addressdomain "github.com/ScriptsHub07/venda3/internal/address/domain"
	"github.com/ScriptsHub07/venda3/internal/auth"
	"github.com/ScriptsHub07/venda3/internal/notification"
	orderdomain "github.com/ScriptsHub07/venda3/internal/order/domain"
	orderrepo "github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/ScriptsHub07/venda3/internal/payment/pix"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = orderrepo.ErrOrderNotFound
	ErrChargeExists  = orderrepo.ErrChargeExists
)

type OrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*orderdomain.Order, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*orderdomain.Order, error)
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID, paymentStatus string) error
	ApplyPaymentStatus(ctx context.Context, paymentIntentID, paymentStatus string, payload []byte) (*orderdomain.Order, bool, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

type AddressReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*addressdomain.Address, error)
}

type ChargeClient interface {
	CreateCharge(ctx context.Context, amount float64, description string) (*pix.Charge, error)
}

type PaymentService struct {
	orders    OrderStore
	users     UserReader
	addresses AddressReader
	client    ChargeClient
}

func NewPaymentService(orders OrderStore, users UserReader, addresses AddressReader, client ChargeClient) *PaymentService {
	return &PaymentService{
		orders:    orders,
		users:     users,
		addresses: addresses,
		client:    client,
	}
}

// ChargeOrder mints a PIX charge for the order and records the charge id and
// its initial status. An order that already carries a charge is not charged
// again, and an order belonging to another account answers as not found.
func (s *PaymentService) ChargeOrder(ctx context.Context, userID, orderID uuid.UUID, amount float64, description string) (*pix.Charge, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if order.PaymentIntentID != nil {
		return nil, ErrChargeExists
	}

	charge, err := s.client.CreateCharge(ctx, amount, description)
	if err != nil {
		return nil, fmt.Errorf("create pix charge: %w", err)
	}

	if err := s.orders.SetPaymentIntent(ctx, orderID, charge.ID, charge.Status); err != nil {
		return nil, err
	}
	return charge, nil
}

// ProcessWebhook handles a provider payment-status notification: stores the
// payment status, derives the order status (paid moves a pending order to
// processing) and enqueues the confirmation event at most once.
func (s *PaymentService) ProcessWebhook(ctx context.Context, paymentIntentID, paymentStatus string) error {
	if paymentIntentID == "" {
		return errors.New("missing payment id")
	}

	var payload []byte
	if paymentStatus == string(orderdomain.PaymentStatusPaid) {
		order, err := s.orders.GetByPaymentIntent(ctx, paymentIntentID)
		if err != nil {
			return err
		}
		payload, err = s.buildConfirmation(ctx, order)
		if err != nil {
			return err
		}
	}

	order, enqueued, err := s.orders.ApplyPaymentStatus(ctx, paymentIntentID, paymentStatus, payload)
	if err != nil {
		return err
	}

	if enqueued {
		log.Printf("order %s paid, confirmation enqueued", order.ID)
	}
	return nil
}

func (s *PaymentService) buildConfirmation(ctx context.Context, order *orderdomain.Order) ([]byte, error) {
	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("load customer for confirmation: %w", err)
	}
	address, err := s.addresses.GetByID(ctx, order.AddressID)
	if err != nil {
		return nil, fmt.Errorf("load address for confirmation: %w", err)
	}

	items := make([]notification.ConfirmationItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = notification.ConfirmationItem{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		}
	}

	confirmation := notification.OrderConfirmation{
		OrderID:       order.ID.String(),
		CustomerName:  user.FullName,
		CustomerEmail: user.Email,
		Items:         items,
		Address: notification.ConfirmationAddress{
			Street:       address.Street,
			Number:       address.Number,
			Complement:   address.Complement,
			Neighborhood: address.Neighborhood,
			City:         address.City,
			State:        address.State,
			PostalCode:   address.PostalCode,
		},
		Total: order.Total,
	}

	payload, err := json.Marshal(confirmation)
	if err != nil {
		return nil, fmt.Errorf("marshal confirmation payload: %w", err)
	}
	return payload, nil
}
