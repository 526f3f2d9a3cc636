package lifecycle

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrust/internal/domain/entity"
)

var (
	buyer  = entity.Actor{ID: "c1", Role: entity.RoleConsumer}
	seller = entity.Actor{ID: "f1", Role: entity.RoleFarmer}
	admin  = entity.Actor{ID: "a1", Role: entity.RoleAdmin}
)

func newOrder() entity.Order {
	return entity.Order{
		ID:         "ORD-1",
		FarmerID:   "f1",
		ConsumerID: "c1",
		Status:     entity.OrderPendingEscrow,
		Products:   []entity.OrderItem{{ProductID: "p1", Quantity: 5, Name: "Jos Tomatoes", Price: 1500}},
		Total:      7500,
	}
}

func TestAdvance_HappyPath(t *testing.T) {
	o := newOrder()
	now := fixedNow
	hold := 24 * time.Hour

	o, log, err := Advance(o, entity.OrderPaidEscrow, buyer, TransitionInput{}, now)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPendingEscrow, log.From)
	assert.Equal(t, entity.OrderPaidEscrow, log.To)
	assert.Equal(t, "PAID - SHIP NOW", o.StatusLabel())
	require.NotNil(t, o.PaidAt)

	o, _, err = Advance(o, entity.OrderShipped, seller, TransitionInput{TrackingNumber: " GIG-123 ", Carrier: "GIG"}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "GIG-123", o.TrackingNumber)
	require.NotNil(t, o.ShippedAt)

	deliveredAt := now.Add(48 * time.Hour)
	o, _, err = Advance(o, entity.OrderDelivered, buyer, TransitionInput{ReleaseHold: hold}, deliveredAt)
	require.NoError(t, err)
	require.NotNil(t, o.AutoReleaseAt)
	assert.Equal(t, deliveredAt.Add(hold), *o.AutoReleaseAt)

	assert.False(t, DueForRelease(&o, deliveredAt.Add(time.Hour)))
	assert.True(t, DueForRelease(&o, deliveredAt.Add(hold)))

	o, log, err = Advance(o, entity.OrderReleased, entity.SystemActor, TransitionInput{}, deliveredAt.Add(hold))
	require.NoError(t, err)
	assert.Equal(t, entity.OrderReleased, o.Status)
	assert.Nil(t, o.AutoReleaseAt)
	assert.Equal(t, entity.RoleSystem, log.ActorRole)

	_, _, err = Advance(o, entity.OrderReleased, admin, TransitionInput{}, now)
	assert.ErrorIs(t, err, ErrInvalidTransition, "RELEASED is terminal")
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	o := newOrder()
	_, _, err := Advance(o, entity.OrderPaidEscrow, buyer, TransitionInput{}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPendingEscrow, o.Status)
	assert.Nil(t, o.PaidAt)
}

func TestAdvance_RejectsSkipsAndRegressions(t *testing.T) {
	o := newOrder()
	o.Status = entity.OrderShipped

	for _, to := range []entity.OrderStatus{entity.OrderPendingEscrow, entity.OrderPaidEscrow, entity.OrderShipped, entity.OrderReleased} {
		_, _, err := Advance(o, to, admin, TransitionInput{}, fixedNow)
		assert.ErrorIs(t, err, ErrInvalidTransition, "to %s", to)
	}
}

func TestAdvance_ActorRules(t *testing.T) {
	tests := []struct {
		name  string
		from  entity.OrderStatus
		to    entity.OrderStatus
		actor entity.Actor
	}{
		{"farmer cannot pay", entity.OrderPendingEscrow, entity.OrderPaidEscrow, seller},
		{"other consumer cannot pay", entity.OrderPendingEscrow, entity.OrderPaidEscrow, entity.Actor{ID: "c2", Role: entity.RoleConsumer}},
		{"consumer cannot ship", entity.OrderPaidEscrow, entity.OrderShipped, buyer},
		{"other farmer cannot ship", entity.OrderPaidEscrow, entity.OrderShipped, entity.Actor{ID: "f2", Role: entity.RoleFarmer}},
		{"admin cannot confirm delivery", entity.OrderShipped, entity.OrderDelivered, admin},
		{"farmer cannot confirm delivery", entity.OrderShipped, entity.OrderDelivered, seller},
		{"consumer cannot release", entity.OrderDelivered, entity.OrderReleased, buyer},
		{"farmer cannot release", entity.OrderDelivered, entity.OrderReleased, seller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrder()
			o.Status = tt.from
			_, _, err := Advance(o, tt.to, tt.actor, TransitionInput{TrackingNumber: "T-1"}, fixedNow)
			assert.ErrorIs(t, err, ErrActorNotAllowed)
		})
	}
}

func TestAdvance_ShippingNeedsTrackingNumber(t *testing.T) {
	o := newOrder()
	o.Status = entity.OrderPaidEscrow

	_, _, err := Advance(o, entity.OrderShipped, seller, TransitionInput{TrackingNumber: "  "}, fixedNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("tracking_number"))
}

func TestAdvance_ReleaseRequiresDeliveryTimestamp(t *testing.T) {
	o := newOrder()
	o.Status = entity.OrderDelivered // status forged without a delivery confirmation

	_, _, err := Advance(o, entity.OrderReleased, admin, TransitionInput{}, fixedNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// Random walks over random targets and actors: status must never move
// backwards, must only ever move one step, and RELEASED must always follow a
// recorded delivery.
func TestAdvance_NeverRegresses(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	actors := []entity.Actor{buyer, seller, admin, entity.SystemActor, {ID: "c9", Role: entity.RoleConsumer}}

	for walk := 0; walk < 500; walk++ {
		o := newOrder()
		now := fixedNow
		for step := 0; step < 20; step++ {
			to := entity.OrderStatuses[rng.Intn(len(entity.OrderStatuses))]
			actor := actors[rng.Intn(len(actors))]
			now = now.Add(time.Hour)

			next, _, err := Advance(o, to, actor, TransitionInput{TrackingNumber: "T-1", ReleaseHold: time.Hour}, now)
			if err != nil {
				assert.Equal(t, o, next)
				continue
			}
			require.Equal(t, o.Status.Rank()+1, next.Status.Rank())
			if next.Status == entity.OrderReleased {
				require.NotNil(t, next.DeliveredAt)
			}
			o = next
		}
	}
}

func TestBalance(t *testing.T) {
	orders := []entity.Order{
		{FarmerID: "f1", Status: entity.OrderPendingEscrow, Total: 100},
		{FarmerID: "f1", Status: entity.OrderPaidEscrow, Total: 7500},
		{FarmerID: "f1", Status: entity.OrderDelivered, Total: 5000},
		{FarmerID: "f1", Status: entity.OrderReleased, Total: 2000},
		{FarmerID: "f2", Status: entity.OrderReleased, Total: 9999},
	}

	b := Balance("f1", orders)
	assert.Equal(t, entity.FarmerBalance{FarmerID: "f1", PendingPayment: 100, Held: 12500, Withdrawable: 2000}, b)
}

func TestNextStatusAndRoles(t *testing.T) {
	next, ok := NextStatus(entity.OrderDelivered)
	assert.True(t, ok)
	assert.Equal(t, entity.OrderReleased, next)

	_, ok = NextStatus(entity.OrderReleased)
	assert.False(t, ok)

	assert.ElementsMatch(t, []entity.Role{entity.RoleAdmin, entity.RoleSystem}, AllowedRoles(entity.OrderDelivered))
}
