package usecase

import (
	"context"

	"agrotrust/internal/domain/entity"
)

// EventPublisher receives lifecycle events after a change is stored.
type EventPublisher interface {
	Publish(evt entity.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(entity.Event) {}

// Advisor is the subset of the advisory service the use cases call.
type Advisor interface {
	DescribeProduct(ctx context.Context, p *entity.Product) string
	AnalyzeDispute(ctx context.Context, orderID, issue string) string
}
