package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/repository"
	"agrotrust/pkg/errors"
)

const (
	farmersCollection    = "farmers"
	rejectionsCollection = "farmer_rejections"
)

type firestoreFarmerRepository struct {
	client *firestore.Client
}

func NewFirestoreFarmerRepository(client *firestore.Client) repository.FarmerRepository {
	return &firestoreFarmerRepository{
		client: client,
	}
}

func (r *firestoreFarmerRepository) Create(ctx context.Context, farmer *entity.FarmerProfile) error {
	if farmer.ID == "" {
		doc := r.client.Collection(farmersCollection).NewDoc()
		farmer.ID = doc.ID
	}

	// Create fails if the document already exists
	_, err := r.client.Collection(farmersCollection).Doc(farmer.ID).Create(ctx, farmer)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Farmer already exists", err)
		}
		return errors.Internal("Failed to create farmer", err)
	}

	return nil
}

func (r *firestoreFarmerRepository) GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error) {
	doc, err := r.client.Collection(farmersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Farmer", err)
		}
		return nil, errors.Internal("Failed to get farmer", err)
	}

	var farmer entity.FarmerProfile
	if err := doc.DataTo(&farmer); err != nil {
		return nil, errors.Internal("Failed to parse farmer data", err)
	}

	return &farmer, nil
}

func (r *firestoreFarmerRepository) List(ctx context.Context) ([]*entity.FarmerProfile, error) {
	iter := r.client.Collection(farmersCollection).OrderBy("joinedDate", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var farmers []*entity.FarmerProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate farmers", err)
		}

		var farmer entity.FarmerProfile
		if err := doc.DataTo(&farmer); err != nil {
			return nil, errors.Internal("Failed to parse farmer data", err)
		}
		farmers = append(farmers, &farmer)
	}

	return farmers, nil
}

func (r *firestoreFarmerRepository) Update(ctx context.Context, farmer *entity.FarmerProfile) error {
	_, err := r.client.Collection(farmersCollection).Doc(farmer.ID).Set(ctx, farmer)
	if err != nil {
		return errors.Internal("Failed to update farmer", err)
	}

	return nil
}

func (r *firestoreFarmerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(farmersCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Farmer", err)
		}
		return errors.Internal("Failed to delete farmer", err)
	}

	return nil
}

type firestoreRejectionRepository struct {
	client *firestore.Client
}

func NewFirestoreRejectionRepository(client *firestore.Client) repository.RejectionRepository {
	return &firestoreRejectionRepository{
		client: client,
	}
}

func (r *firestoreRejectionRepository) Create(ctx context.Context, record *entity.RejectionRecord) error {
	if record.ID == "" {
		doc := r.client.Collection(rejectionsCollection).NewDoc()
		record.ID = doc.ID
	}

	_, err := r.client.Collection(rejectionsCollection).Doc(record.ID).Set(ctx, record)
	if err != nil {
		return errors.Internal("Failed to archive rejection", err)
	}

	return nil
}

func (r *firestoreRejectionRepository) List(ctx context.Context, limit, offset int) ([]*entity.RejectionRecord, int64, error) {
	query := r.client.Collection(rejectionsCollection).OrderBy("rejectedAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count rejections", err)
	}
	total := int64(len(allDocs))

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list rejections", err)
	}

	records := make([]*entity.RejectionRecord, 0, len(docs))
	for _, doc := range docs {
		var record entity.RejectionRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, 0, errors.Internal("Failed to parse rejection data", err)
		}
		records = append(records, &record)
	}

	return records, total, nil
}
