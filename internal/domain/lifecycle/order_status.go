package lifecycle

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"agrotrust/internal/domain/entity"
)

type party int

const (
	partyNone party = iota
	partyConsumer
	partyFarmer
)

type orderEdge struct {
	to    entity.OrderStatus
	roles []entity.Role
	party party // which side of the order the actor must be
}

// orderEdges holds the only forward edge out of each status. RELEASED has none.
var orderEdges = map[entity.OrderStatus]orderEdge{
	entity.OrderPendingEscrow: {to: entity.OrderPaidEscrow, roles: []entity.Role{entity.RoleConsumer}, party: partyConsumer},
	entity.OrderPaidEscrow:    {to: entity.OrderShipped, roles: []entity.Role{entity.RoleFarmer}, party: partyFarmer},
	entity.OrderShipped:       {to: entity.OrderDelivered, roles: []entity.Role{entity.RoleConsumer}, party: partyConsumer},
	entity.OrderDelivered:     {to: entity.OrderReleased, roles: []entity.Role{entity.RoleAdmin, entity.RoleSystem}, party: partyNone},
}

// NextStatus returns the single status reachable from s.
func NextStatus(s entity.OrderStatus) (entity.OrderStatus, bool) {
	edge, ok := orderEdges[s]
	return edge.to, ok
}

// AllowedRoles lists the roles that may move an order out of s.
func AllowedRoles(s entity.OrderStatus) []entity.Role {
	return slices.Clone(orderEdges[s].roles)
}

// CanTransition checks that to is the next status for order and that actor
// may trigger it.
func CanTransition(order *entity.Order, to entity.OrderStatus, actor entity.Actor) error {
	edge, ok := orderEdges[order.Status]
	if !ok || edge.to != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}
	if !slices.Contains(edge.roles, actor.Role) {
		return fmt.Errorf("%w: %s cannot move an order to %s", ErrActorNotAllowed, actor.Role, to)
	}

	switch edge.party {
	case partyConsumer:
		if order.ConsumerID == "" || order.ConsumerID != actor.ID {
			return fmt.Errorf("%w: only the buying consumer can move an order to %s", ErrActorNotAllowed, to)
		}
	case partyFarmer:
		if order.FarmerID != actor.ID {
			return fmt.Errorf("%w: only the selling farmer can move an order to %s", ErrActorNotAllowed, to)
		}
	}
	return nil
}

// TransitionInput carries what a transition may need beyond the target status.
type TransitionInput struct {
	TrackingNumber string
	Carrier        string
	Notes          string
	// ReleaseHold is how long funds stay held after delivery before the
	// system may release them.
	ReleaseHold time.Duration
}

// Advance returns a copy of order moved to status to, together with the
// audit entry for the move. The input order is not modified.
func Advance(order entity.Order, to entity.OrderStatus, actor entity.Actor, in TransitionInput, now time.Time) (entity.Order, entity.OrderLog, error) {
	if err := CanTransition(&order, to, actor); err != nil {
		return order, entity.OrderLog{}, err
	}

	from := order.Status
	next := order
	next.Products = slices.Clone(order.Products)
	ts := now

	switch to {
	case entity.OrderPaidEscrow:
		next.PaidAt = &ts
	case entity.OrderShipped:
		tracking := strings.TrimSpace(in.TrackingNumber)
		if tracking == "" {
			return order, entity.OrderLog{}, &ValidationError{Fields: []FieldError{{
				Field:   "tracking_number",
				Message: "tracking number is required to mark an order shipped",
			}}}
		}
		next.TrackingNumber = tracking
		next.Carrier = strings.TrimSpace(in.Carrier)
		next.ShippedAt = &ts
	case entity.OrderDelivered:
		next.DeliveredAt = &ts
		release := now.Add(in.ReleaseHold)
		next.AutoReleaseAt = &release
	case entity.OrderReleased:
		if next.DeliveredAt == nil {
			return order, entity.OrderLog{}, fmt.Errorf("%w: delivery was never confirmed", ErrInvalidTransition)
		}
		next.ReleasedAt = &ts
		next.AutoReleaseAt = nil
	}

	next.Status = to
	next.UpdatedAt = now

	log := entity.OrderLog{
		OrderID:   order.ID,
		From:      from,
		To:        to,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Notes:     in.Notes,
		CreatedAt: now,
	}
	return next, log, nil
}

// DueForRelease reports whether the system may release order at now.
func DueForRelease(order *entity.Order, now time.Time) bool {
	return order.Status == entity.OrderDelivered &&
		order.AutoReleaseAt != nil &&
		!now.Before(*order.AutoReleaseAt)
}

// Balance splits the farmer's orders by escrow position. Orders of other
// farmers are ignored.
func Balance(farmerID string, orders []entity.Order) entity.FarmerBalance {
	b := entity.FarmerBalance{FarmerID: farmerID}
	for _, o := range orders {
		if o.FarmerID != farmerID {
			continue
		}
		switch o.Status {
		case entity.OrderPendingEscrow:
			b.PendingPayment += o.Total
		case entity.OrderPaidEscrow, entity.OrderShipped, entity.OrderDelivered:
			b.Held += o.Total
		case entity.OrderReleased:
			b.Withdrawable += o.Total
		}
	}
	return b
}
