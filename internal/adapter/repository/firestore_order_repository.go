package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/repository"
	"agrotrust/pkg/errors"
)

const (
	ordersCollection    = "orders"
	orderLogsCollection = "order_logs"
)

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		doc := r.client.Collection(ordersCollection).NewDoc()
		order.ID = doc.ID
	}

	_, err := r.client.Collection(ordersCollection).Doc(order.ID).Create(ctx, order)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Order already exists", err)
		}
		return errors.Internal("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, errors.Internal("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}

	return &order, nil
}

func (r *firestoreOrderRepository) Update(ctx context.Context, order *entity.Order) error {
	_, err := r.client.Collection(ordersCollection).Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to update order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) List(ctx context.Context, filter entity.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	query := r.client.Collection(ordersCollection).Query

	if filter.FarmerID != "" {
		query = query.Where("farmerId", "==", filter.FarmerID)
	}
	if filter.ConsumerID != "" {
		query = query.Where("consumerId", "==", filter.ConsumerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	query = query.OrderBy("date", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count orders", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	orders, err := r.collect(query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *firestoreOrderRepository) ListDueForRelease(ctx context.Context, now time.Time) ([]*entity.Order, error) {
	query := r.client.Collection(ordersCollection).
		Where("status", "==", string(entity.OrderDelivered)).
		Where("autoReleaseAt", "<=", now)

	return r.collect(query.Documents(ctx))
}

func (r *firestoreOrderRepository) collect(iter *firestore.DocumentIterator) ([]*entity.Order, error) {
	defer iter.Stop()

	var orders []*entity.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate orders", err)
		}
		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, errors.Internal("Failed to parse order data", err)
		}
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r *firestoreOrderRepository) CreateLog(ctx context.Context, log *entity.OrderLog) error {
	if log.ID == "" {
		doc := r.client.Collection(orderLogsCollection).NewDoc()
		log.ID = doc.ID
	}

	_, err := r.client.Collection(orderLogsCollection).Doc(log.ID).Set(ctx, log)
	if err != nil {
		return errors.Internal("Failed to write order log", err)
	}

	return nil
}

func (r *firestoreOrderRepository) ListLogs(ctx context.Context, orderID string) ([]*entity.OrderLog, error) {
	docs, err := r.client.Collection(orderLogsCollection).
		Where("orderId", "==", orderID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list order logs", err)
	}

	logs := make([]*entity.OrderLog, 0, len(docs))
	for _, doc := range docs {
		var log entity.OrderLog
		if err := doc.DataTo(&log); err != nil {
			return nil, errors.Internal("Failed to parse order log", err)
		}
		logs = append(logs, &log)
	}

	return logs, nil
}
