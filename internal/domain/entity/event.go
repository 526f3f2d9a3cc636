package entity

import "time"

const (
	EventFarmerRegistered   = "farmer.registered"
	EventFarmerApproved     = "farmer.approved"
	EventFarmerRejected     = "farmer.rejected"
	EventListingCreated     = "listing.created"
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is a lifecycle notification pushed to connected dashboards.
type Event struct {
	Type       string                 `json:"type"`
	EntityID   string                 `json:"entity_id"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
