package entity

import (
	"time"
)

type OrderStatus string

const (
	OrderPendingEscrow OrderStatus = "PENDING_ESCROW"
	OrderPaidEscrow    OrderStatus = "PAID_ESCROW"
	OrderShipped       OrderStatus = "SHIPPED"
	OrderDelivered     OrderStatus = "DELIVERED"
	OrderReleased      OrderStatus = "RELEASED"
)

// OrderStatuses lists the escrow lifecycle in order.
var OrderStatuses = []OrderStatus{OrderPendingEscrow, OrderPaidEscrow, OrderShipped, OrderDelivered, OrderReleased}

// Rank is the position of the status in the escrow lifecycle, or -1 for an
// unknown status.
func (s OrderStatus) Rank() int {
	for i, st := range OrderStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.Rank() >= 0
}

// Role identifies who is acting on the marketplace.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleFarmer   Role = "farmer"
	RoleAdmin    Role = "admin"
	RoleSystem   Role = "system"
)

func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleFarmer, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Actor is the authenticated party behind a state change.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// SystemActor drives timeout-based transitions.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

type OrderItem struct {
	ProductID string  `json:"product_id" firestore:"productId" yaml:"productId"`
	Quantity  int     `json:"quantity" firestore:"quantity" yaml:"quantity"`
	Name      string  `json:"name" firestore:"name" yaml:"name"`
	Price     float64 `json:"price" firestore:"price" yaml:"price"`
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

type Order struct {
	ID         string      `json:"id" firestore:"id" yaml:"id"`
	Products   []OrderItem `json:"products" firestore:"products" yaml:"products"`
	Total      float64     `json:"total" firestore:"total" yaml:"total"`
	Status     OrderStatus `json:"status" firestore:"status" yaml:"status"`
	Date       string      `json:"date" firestore:"date" yaml:"date"`
	FarmerID   string      `json:"farmer_id" firestore:"farmerId" yaml:"farmerId"`
	ConsumerID string      `json:"consumer_id,omitempty" firestore:"consumerId,omitempty" yaml:"consumerId,omitempty"`

	// Shipment proof
	TrackingNumber string `json:"tracking_number,omitempty" firestore:"trackingNumber,omitempty" yaml:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty" firestore:"carrier,omitempty" yaml:"carrier,omitempty"`

	PaidAt        *time.Time `json:"paid_at,omitempty" firestore:"paidAt,omitempty" yaml:"paidAt,omitempty"`
	ShippedAt     *time.Time `json:"shipped_at,omitempty" firestore:"shippedAt,omitempty" yaml:"shippedAt,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty" yaml:"deliveredAt,omitempty"`
	ReleasedAt    *time.Time `json:"released_at,omitempty" firestore:"releasedAt,omitempty" yaml:"releasedAt,omitempty"`
	AutoReleaseAt *time.Time `json:"auto_release_at,omitempty" firestore:"autoReleaseAt,omitempty" yaml:"autoReleaseAt,omitempty"`

	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt" yaml:"updatedAt"`
}

// ComputeTotal sums the line items.
func (o *Order) ComputeTotal() float64 {
	var total float64
	for _, item := range o.Products {
		total += item.Subtotal()
	}
	return total
}

// StatusLabel is the farmer-facing label for an order status.
func (o *Order) StatusLabel() string {
	if o.Status == OrderPaidEscrow {
		return "PAID - SHIP NOW"
	}
	return string(o.Status)
}

type OrderLog struct {
	ID        string      `json:"id" firestore:"id"`
	OrderID   string      `json:"order_id" firestore:"orderId"`
	From      OrderStatus `json:"from" firestore:"from"`
	To        OrderStatus `json:"to" firestore:"to"`
	ActorID   string      `json:"actor_id" firestore:"actorId"`
	ActorRole Role        `json:"actor_role" firestore:"actorRole"`
	Notes     string      `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at" firestore:"createdAt"`
}

type OrderFilter struct {
	FarmerID   string
	ConsumerID string
	Status     OrderStatus
}

func (f OrderFilter) Matches(o *Order) bool {
	if f.FarmerID != "" && o.FarmerID != f.FarmerID {
		return false
	}
	if f.ConsumerID != "" && o.ConsumerID != f.ConsumerID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}

// FarmerBalance splits a farmer's order value by escrow position.
type FarmerBalance struct {
	FarmerID       string  `json:"farmer_id"`
	PendingPayment float64 `json:"pending_payment"`
	Held           float64 `json:"held"`
	Withdrawable   float64 `json:"withdrawable"`
}
