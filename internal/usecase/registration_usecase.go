package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/lifecycle"
	"agrotrust/pkg/errors"
)

// SessionTTL is how long an untouched wizard survives.
const SessionTTL = 24 * time.Hour

// RegistrationUseCase keeps in-progress registration wizards in memory.
// Abandoned sessions are discarded with everything entered so far.
type RegistrationUseCase struct {
	farmers  *FarmerUseCase
	sessions map[string]*lifecycle.Wizard
	mu       sync.Mutex
	now      func() time.Time
}

func NewRegistrationUseCase(farmers *FarmerUseCase) *RegistrationUseCase {
	return &RegistrationUseCase{
		farmers:  farmers,
		sessions: make(map[string]*lifecycle.Wizard),
		now:      time.Now,
	}
}

// get must be called with mu held.
func (uc *RegistrationUseCase) get(id string) (*lifecycle.Wizard, error) {
	w, ok := uc.sessions[id]
	if !ok {
		return nil, errors.NotFound("Registration session", nil)
	}
	return w, nil
}

// prune drops expired sessions. Must be called with mu held.
func (uc *RegistrationUseCase) prune(now time.Time) {
	for id, w := range uc.sessions {
		if now.Sub(w.UpdatedAt) > SessionTTL {
			delete(uc.sessions, id)
		}
	}
}

func (uc *RegistrationUseCase) Start(ctx context.Context) lifecycle.Wizard {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	uc.prune(now)

	w := lifecycle.NewWizard(uuid.NewString(), now)
	uc.sessions[w.ID] = w
	return *w
}

func (uc *RegistrationUseCase) Get(ctx context.Context, id string) (lifecycle.Wizard, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	w, err := uc.get(id)
	if err != nil {
		return lifecycle.Wizard{}, err
	}
	return *w, nil
}

// Update merges the patch into the form without validating it.
func (uc *RegistrationUseCase) Update(ctx context.Context, id string, patch lifecycle.FormPatch) (lifecycle.Wizard, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	w, err := uc.get(id)
	if err != nil {
		return lifecycle.Wizard{}, err
	}
	if err := w.Update(patch, uc.now()); err != nil {
		return *w, mapDomainError(err)
	}
	return *w, nil
}

// Next advances when the current step's required fields are filled in.
func (uc *RegistrationUseCase) Next(ctx context.Context, id string) (lifecycle.Wizard, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	w, err := uc.get(id)
	if err != nil {
		return lifecycle.Wizard{}, err
	}
	if err := w.Next(uc.now()); err != nil {
		return *w, mapDomainError(err)
	}
	return *w, nil
}

// Back moves one step back. Going back from the first step cancels the
// session, reported by cancelled.
func (uc *RegistrationUseCase) Back(ctx context.Context, id string) (w lifecycle.Wizard, cancelled bool, err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, err := uc.get(id)
	if err != nil {
		return lifecycle.Wizard{}, false, err
	}
	cancelled, err = session.Back(uc.now())
	if err != nil {
		return *session, false, mapDomainError(err)
	}
	if cancelled {
		delete(uc.sessions, id)
	}
	return *session, cancelled, nil
}

func (uc *RegistrationUseCase) Abandon(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, err := uc.get(id); err != nil {
		return err
	}
	delete(uc.sessions, id)
	return nil
}

// Submit re-validates the whole form and registers the farmer under
// farmerID. The session is closed on success.
func (uc *RegistrationUseCase) Submit(ctx context.Context, id, farmerID string) (*entity.FarmerProfile, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	w, err := uc.get(id)
	if err != nil {
		return nil, err
	}

	app, err := w.Submit()
	if err != nil {
		return nil, mapDomainError(err)
	}

	profile, err := uc.farmers.Register(ctx, farmerID, app)
	if err != nil {
		return nil, err
	}

	w.Complete(uc.now())
	delete(uc.sessions, id)
	return profile, nil
}
