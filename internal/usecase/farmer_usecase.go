package usecase

import (
	"context"
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

const defaultRejectionReason = "Verification requirements not met"

type FarmerUseCase struct {
	farmerRepo    repository.FarmerRepository
	rejectionRepo repository.RejectionRepository
	events        EventPublisher
	now           func() time.Time

	// mu serializes read-modify-write cycles over the farmer collection.
	mu sync.Mutex
}

func NewFarmerUseCase(
	farmerRepo repository.FarmerRepository,
	rejectionRepo repository.RejectionRepository,
	events EventPublisher,
) *FarmerUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	return &FarmerUseCase{
		farmerRepo:    farmerRepo,
		rejectionRepo: rejectionRepo,
		events:        events,
		now:           time.Now,
	}
}

func (uc *FarmerUseCase) collection(ctx context.Context) ([]entity.FarmerProfile, error) {
	ptrs, err := uc.farmerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	farmers := make([]entity.FarmerProfile, len(ptrs))
	for i, f := range ptrs {
		farmers[i] = *f
	}
	return farmers, nil
}

// Register validates a complete application and stores the new pending
// profile under farmerID, the caller's account id. An empty farmerID gets a
// generated one.
func (uc *FarmerUseCase) Register(ctx context.Context, farmerID string, app entity.FarmerApplication) (*entity.FarmerProfile, error) {
	if farmerID == "" {
		farmerID = "f-" + uuid.NewString()
	}


	uc.mu.Lock()
	defer uc.mu.Unlock()

	farmers, err := uc.collection(ctx)
	if err != nil {
		return nil, err
	}

	_, profile, err := lifecycle.Register(farmers, app, farmerID, uc.now())
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := uc.farmerRepo.Create(ctx, &profile); err != nil {
		return nil, err
	}

	logger.Info("Farmer registered: %s (%s), awaiting verification", profile.ID, profile.Name)
	uc.events.Publish(entity.Event{
		Type:       entity.EventFarmerRegistered,
		EntityID:   profile.ID,
		Data:       map[string]interface{}{"farmer_id": profile.ID, "name": profile.Name},
		OccurredAt: uc.now(),
	})

	return &profile, nil
}

// Approve verifies a farmer. Approving an already verified farmer returns it
// unchanged.
func (uc *FarmerUseCase) Approve(ctx context.Context, adminID, farmerID string) (*entity.FarmerProfile, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	farmers, err := uc.collection(ctx)
	if err != nil {
		return nil, err
	}

	_, approved, err := lifecycle.Approve(farmers, farmerID)
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := uc.farmerRepo.Update(ctx, &approved); err != nil {
		return nil, err
	}

	logger.Info("Farmer %s approved by %s", farmerID, adminID)
	uc.events.Publish(entity.Event{
		Type:       entity.EventFarmerApproved,
		EntityID:   farmerID,
		Data:       map[string]interface{}{"farmer_id": farmerID, "trust_score": approved.TrustScore},
		OccurredAt: uc.now(),
	})

	return &approved, nil
}

// Reject removes a pending farmer and archives the application with the
// reason given.
func (uc *FarmerUseCase) Reject(ctx context.Context, adminID, farmerID, reason string) (*entity.RejectionRecord, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	farmers, err := uc.collection(ctx)
	if err != nil {
		return nil, err
	}

	_, removed, ok := lifecycle.Reject(farmers, farmerID)
	if !ok {
		return nil, errors.NotFound("Farmer", lifecycle.ErrFarmerNotFound)
	}

	if err := uc.farmerRepo.Delete(ctx, farmerID); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectionReason
	}
	record := &entity.RejectionRecord{
		ID:         uuid.NewString(),
		FarmerID:   removed.ID,
		Name:       removed.Name,
		FarmName:   removed.FarmName,
		Phone:      removed.Phone,
		NIN:        removed.NIN,
		Reason:     reason,
		RejectedBy: adminID,
		RejectedAt: uc.now(),
	}
	if err := uc.rejectionRepo.Create(ctx, record); err != nil {
		// The farmer is already gone; losing the archive entry is not fatal.
		logger.Error("Failed to archive rejection for farmer %s: %v", farmerID, err)
	}

	logger.Info("Farmer %s rejected by %s: %s", farmerID, adminID, reason)
	uc.events.Publish(entity.Event{
		Type:       entity.EventFarmerRejected,
		EntityID:   farmerID,
		Data:       map[string]interface{}{"farmer_id": farmerID, "reason": reason},
		OccurredAt: uc.now(),
	})

	return record, nil
}

func (uc *FarmerUseCase) GetFarmer(ctx context.Context, farmerID string) (*entity.FarmerProfile, error) {
	return uc.farmerRepo.GetByID(ctx, farmerID)
}

// ListPending returns farmers awaiting an admin decision in registration order.
func (uc *FarmerUseCase) ListPending(ctx context.Context) ([]entity.FarmerProfile, error) {
	farmers, err := uc.collection(ctx)
	if err != nil {
		return nil, err
	}
	return lifecycle.Pending(farmers), nil
}

func (uc *FarmerUseCase) ListVerified(ctx context.Context) ([]entity.FarmerProfile, error) {
	farmers, err := uc.collection(ctx)
	if err != nil {
		return nil, err
	}
	verified := make([]entity.FarmerProfile, 0, len(farmers))
	for _, f := range farmers {
		if f.Verified {
			verified = append(verified, f)
		}
	}
	return verified, nil
}

func (uc *FarmerUseCase) ListRejections(ctx context.Context, page, limit int) ([]*entity.RejectionRecord, int64, error) {
	return uc.rejectionRepo.List(ctx, limit, (page-1)*limit)
}
