package order

import (
	"context"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/storefront/app/internal/application/orderline"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/app/internal/pkg/logging"
	"go.uber.org/zap"
)

type Service struct {
	orders  domorder.Repository
	clients client.Repository
	lines   *orderline.Service
}

func NewService(orders domorder.Repository, clients client.Repository, lines *orderline.Service) *Service {
	return &Service{orders: orders, clients: clients, lines: lines}
}

type Input struct {
	Date           time.Time
	Total          float64
	DeliveryMethod domorder.DeliveryMethod
	Status         domorder.Status
	ClientID       uint64
}

func (s *Service) Create(ctx context.Context, in Input) (*domorder.Order, error) {
	if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
		return nil, fmt.Errorf("order: resolve client: %w", err)
	}
	entity, err := domorder.New(in.Date, in.Total, in.DeliveryMethod, in.Status, in.ClientID)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Insert(ctx, entity); err != nil {
		return nil, fmt.Errorf("order: insert: %w", err)
	}
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id uint64, in Input) (*domorder.Order, error) {
	existing, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != existing.ClientID {
		if _, err := s.clients.FindByID(ctx, in.ClientID); err != nil {
			return nil, fmt.Errorf("order: resolve client: %w", err)
		}
	}
	if in.Total < 0 {
		return nil, domorder.ErrInvalidTotal
	}
	if !in.DeliveryMethod.Valid() {
		return nil, domorder.ErrInvalidDelivery
	}
	if !in.Status.Valid() {
		return nil, domorder.ErrInvalidStatus
	}
	existing.Total = in.Total
	existing.DeliveryMethod = in.DeliveryMethod
	existing.Status = in.Status
	existing.ClientID = in.ClientID
	if !in.Date.IsZero() {
		existing.Date = in.Date
	}
	existing.UpdatedAt = time.Now().UTC()
	if err := s.orders.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("order: update: %w", err)
	}
	return existing, nil
}

// Delete removes the order's lines first, sequentially and one transaction
// per line, which restores each line's stock while bounding lock hold time.
// Only then is the order row removed.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return err
	}
	lines, err := s.lines.ListByOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("order: list lines: %w", err)
	}
	for _, line := range lines {
		if err := s.lines.Delete(ctx, line.ID); err != nil {
			logging.FromContext(ctx).Error("order_line_cascade_failed",
				zap.Uint64("order_id", id),
				zap.Uint64("line_id", line.ID),
				zap.Error(err),
			)
			return fmt.Errorf("order: delete line %d: %w", line.ID, err)
		}
	}
	return s.orders.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uint64) (*domorder.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]*domorder.Order, error) {
	return s.orders.List(ctx, offset, limit)
}
