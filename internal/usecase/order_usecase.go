package usecase

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/lifecycle"
	"agrotrust/internal/domain/repository"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/logger"
)

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	advisor     Advisor
	events      EventPublisher
	releaseHold time.Duration
	now         func() time.Time

	// Transitions on the same order serialize on one stripe.
	locks [lockStripes]sync.Mutex
}

const lockStripes = 64

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	advisor Advisor,
	events EventPublisher,
	releaseHold time.Duration,
) *OrderUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		advisor:     advisor,
		events:      events,
		releaseHold: releaseHold,
		now:         time.Now,
	}
}

func stripeFor(orderID string) int {
	h := fnv.New32a()
	h.Write([]byte(orderID))
	return int(h.Sum32() % lockStripes)
}

func (uc *OrderUseCase) lock(orderID string) func() {
	mu := &uc.locks[stripeFor(orderID)]
	mu.Lock()
	return mu.Unlock
}

type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrder creates a PENDING_ESCROW order. All items must come from one
// farmer; prices are taken from the listings, not the request.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, consumerID string, items []OrderItemInput) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, errors.BadRequest("An order needs at least one item", nil)
	}

	order := &entity.Order{
		ID:         "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		ConsumerID: consumerID,
		Status:     entity.OrderPendingEscrow,
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.BadRequest("Quantity must be greater than zero", nil)
		}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if order.FarmerID == "" {
			order.FarmerID = product.FarmerID
		} else if order.FarmerID != product.FarmerID {
			return nil, errors.BadRequest("All items in an order must come from the same farmer", nil)
		}
		order.Products = append(order.Products, entity.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Name:      product.Name,
			Price:     product.Price,
		})
	}

	now := uc.now()
	order.Total = order.ComputeTotal()
	order.Date = now.Format("2006-01-02")
	order.UpdatedAt = now

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.Info("Order %s placed by %s for farmer %s, total %.2f", order.ID, consumerID, order.FarmerID, order.Total)
	uc.events.Publish(entity.Event{
		Type:       entity.EventOrderPlaced,
		EntityID:   order.ID,
		Data:       map[string]interface{}{"farmer_id": order.FarmerID, "consumer_id": consumerID, "total": order.Total},
		OccurredAt: now,
	})

	return order, nil
}

func (uc *OrderUseCase) transition(ctx context.Context, orderID string, to entity.OrderStatus, actor entity.Actor, in lifecycle.TransitionInput) (*entity.Order, error) {
	unlock := uc.lock(orderID)
	defer unlock()

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	in.ReleaseHold = uc.releaseHold
	now := uc.now()
	next, entry, err := lifecycle.Advance(*order, to, actor, in, now)
	if err != nil {
		logger.LogOrderError(orderID, string(to), err)
		return nil, mapDomainError(err)
	}

	if err := uc.orderRepo.Update(ctx, &next); err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	if err := uc.orderRepo.CreateLog(ctx, &entry); err != nil {
		logger.Error("Failed to write audit entry for order %s: %v", orderID, err)
	}

	logger.Info("Order %s: %s -> %s by %s %s", orderID, entry.From, entry.To, actor.Role, actor.ID)
	uc.events.Publish(entity.Event{
		Type:     entity.EventOrderStatusChanged,
		EntityID: orderID,
		Data: map[string]interface{}{
			"farmer_id":   next.FarmerID,
			"consumer_id": next.ConsumerID,
			"from":        string(entry.From),
			"to":          string(entry.To),
		},
		OccurredAt: now,
	})

	return &next, nil
}

// Pay moves the consumer's order into escrow.
func (uc *OrderUseCase) Pay(ctx context.Context, consumer entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderPaidEscrow, consumer, lifecycle.TransitionInput{})
}

// Ship records the farmer's shipment proof.
func (uc *OrderUseCase) Ship(ctx context.Context, farmer entity.Actor, orderID, trackingNumber, carrier string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderShipped, farmer, lifecycle.TransitionInput{
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
	})
}

// ConfirmDelivery starts the hold period after which the funds are released.
func (uc *OrderUseCase) ConfirmDelivery(ctx context.Context, consumer entity.Actor, orderID string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderDelivered, consumer, lifecycle.TransitionInput{})
}

// Release pays out a delivered order before its hold expires.
func (uc *OrderUseCase) Release(ctx context.Context, admin entity.Actor, orderID, notes string) (*entity.Order, error) {
	return uc.transition(ctx, orderID, entity.OrderReleased, admin, lifecycle.TransitionInput{Notes: notes})
}

// ProcessAutoRelease releases every delivered order whose hold has expired
// and returns how many were released.
func (uc *OrderUseCase) ProcessAutoRelease(ctx context.Context) (int, error) {
	due, err := uc.orderRepo.ListDueForRelease(ctx, uc.now())
	if err != nil {
		return 0, err
	}

	released := 0
	for _, order := range due {
		if _, err := uc.transition(ctx, order.ID, entity.OrderReleased, entity.SystemActor, lifecycle.TransitionInput{
			Notes: "Auto-release: hold period passed without dispute",
		}); err != nil {
			// Another actor may have released it since the query ran.
			logger.Warn("Auto-release skipped order %s: %v", order.ID, err)
			continue
		}
		released++
	}

	if released > 0 {
		logger.Info("Auto-release processed: %d orders released", released)
	}
	return released, nil
}

// RunAutoReleaseJob calls ProcessAutoRelease every interval until ctx is done.
func (uc *OrderUseCase) RunAutoReleaseJob(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Auto-release job started (checking every %s)", interval)
	for {
		select {
		case <-ticker.C:
			if _, err := uc.ProcessAutoRelease(ctx); err != nil {
				logger.Error("Auto-release job error: %v", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// GetOrder returns an order the actor is a party to. Admins see every order.
func (uc *OrderUseCase) GetOrder(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, order) {
		return nil, errors.Forbidden("You are not a party to this order", nil)
	}
	return order, nil
}

func canView(actor entity.Actor, order *entity.Order) bool {
	switch actor.Role {
	case entity.RoleAdmin, entity.RoleSystem:
		return true
	case entity.RoleFarmer:
		return order.FarmerID == actor.ID
	case entity.RoleConsumer:
		return order.ConsumerID == actor.ID
	}
	return false
}

func (uc *OrderUseCase) ListOrders(ctx context.Context, filter entity.OrderFilter, page, limit int) ([]*entity.Order, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, errors.BadRequest("Unknown order status", nil)
	}
	return uc.orderRepo.List(ctx, filter, limit, (page-1)*limit)
}

// History returns the audit trail of an order, oldest first.
func (uc *OrderUseCase) History(ctx context.Context, actor entity.Actor, orderID string) ([]*entity.OrderLog, error) {
	if _, err := uc.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return uc.orderRepo.ListLogs(ctx, orderID)
}

func (uc *OrderUseCase) Balance(ctx context.Context, farmerID string) (entity.FarmerBalance, error) {
	orders, _, err := uc.orderRepo.List(ctx, entity.OrderFilter{FarmerID: farmerID}, 0, 0)
	if err != nil {
		return entity.FarmerBalance{}, err
	}
	values := make([]entity.Order, len(orders))
	for i, o := range orders {
		values[i] = *o
	}
	return lifecycle.Balance(farmerID, values), nil
}

// Audit asks the advisory service for a preliminary recommendation on an
// order. It only fails when the order does not exist.
func (uc *OrderUseCase) Audit(ctx context.Context, orderID, issue string) (string, error) {
	if _, err := uc.orderRepo.GetByID(ctx, orderID); err != nil {
		return "", err
	}
	return uc.advisor.AnalyzeDispute(ctx, orderID, issue), nil
}
