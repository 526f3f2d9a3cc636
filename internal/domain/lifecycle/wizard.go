package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"agrotrust/internal/domain/entity"
)

type Step string

const (
	StepIdentity    Step = "IDENTITY"
	StepFarmDetails Step = "FARM_DETAILS"
	StepDocuments   Step = "DOCUMENTS"
	StepSubmitted   Step = "SUBMITTED"
)

// Number is the 1-based position shown as "Verification (n/3)".
func (s Step) Number() int {
	switch s {
	case StepIdentity:
		return 1
	case StepFarmDetails:
		return 2
	case StepDocuments:
		return 3
	}
	return 0
}

// RegistrationForm is the raw wizard input. MainCrops is the comma separated
// text the farmer typed.
type RegistrationForm struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone" validate:"required"`
	StateOfOrigin    string `json:"state_of_origin" validate:"omitempty,ngstate"`
	StateOfResidence string `json:"state_of_residence" validate:"required,ngstate"`
	FarmName         string `json:"farm_name" validate:"required"`
	FarmSize         string `json:"farm_size"`
	FarmingMethod    string `json:"farming_method" validate:"omitempty,oneof=Conventional Organic Hydroponic Mixed Livestock"`
	MainCrops        string `json:"main_crops" validate:"crops"`
	NIN              string `json:"nin" validate:"required"`
	PassportPhotoURL string `json:"passport_photo_url"`
	NINImageURL      string `json:"nin_image_url" validate:"required"`
	IDImageURL       string `json:"id_image_url"`
}

// Application converts the form into a submission for Register.
func (f RegistrationForm) Application() entity.FarmerApplication {
	return entity.FarmerApplication{
		FirstName:        f.FirstName,
		LastName:         f.LastName,
		Phone:            f.Phone,
		StateOfOrigin:    f.StateOfOrigin,
		StateOfResidence: f.StateOfResidence,
		FarmName:         f.FarmName,
		FarmSize:         f.FarmSize,
		FarmingMethod:    f.FarmingMethod,
		MainCrops:        ParseCrops(f.MainCrops),
		NIN:              f.NIN,
		PassportPhotoURL: f.PassportPhotoURL,
		NINImageURL:      f.NINImageURL,
		IDImageURL:       f.IDImageURL,
	}
}

// FormPatch updates only the fields that are set.
type FormPatch struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Phone            *string `json:"phone"`
	StateOfOrigin    *string `json:"state_of_origin"`
	StateOfResidence *string `json:"state_of_residence"`
	FarmName         *string `json:"farm_name"`
	FarmSize         *string `json:"farm_size"`
	FarmingMethod    *string `json:"farming_method"`
	MainCrops        *string `json:"main_crops"`
	NIN              *string `json:"nin"`
	PassportPhotoURL *string `json:"passport_photo_url"`
	NINImageURL      *string `json:"nin_image_url"`
	IDImageURL       *string `json:"id_image_url"`
}

func (p FormPatch) apply(f *RegistrationForm) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&f.FirstName, p.FirstName)
	set(&f.LastName, p.LastName)
	set(&f.Phone, p.Phone)
	set(&f.StateOfOrigin, p.StateOfOrigin)
	set(&f.StateOfResidence, p.StateOfResidence)
	set(&f.FarmName, p.FarmName)
	set(&f.FarmSize, p.FarmSize)
	set(&f.FarmingMethod, p.FarmingMethod)
	set(&f.MainCrops, p.MainCrops)
	set(&f.NIN, p.NIN)
	set(&f.PassportPhotoURL, p.PassportPhotoURL)
	set(&f.NINImageURL, p.NINImageURL)
	set(&f.IDImageURL, p.IDImageURL)
}

type stepGate struct {
	next   Step
	fields []string // struct field names checked before leaving the step
}

// gates is the forward transition table. Leaving DOCUMENTS is a submission.
var gates = map[Step]stepGate{
	StepIdentity:    {next: StepFarmDetails, fields: []string{"FirstName", "Phone", "StateOfOrigin", "StateOfResidence"}},
	StepFarmDetails: {next: StepDocuments, fields: []string{"FarmName", "FarmingMethod", "MainCrops"}},
	StepDocuments:   {next: StepSubmitted, fields: []string{"NIN", "NINImageURL"}},
}

var previous = map[Step]Step{
	StepFarmDetails: StepIdentity,
	StepDocuments:   StepFarmDetails,
}

// Wizard is one in-progress registration. It only moves forward when the
// current step's gate passes; moving back is always allowed.
type Wizard struct {
	ID        string           `json:"id"`
	Step      Step             `json:"step"`
	Form      RegistrationForm `json:"form"`
	StartedAt time.Time        `json:"started_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewWizard(id string, now time.Time) *Wizard {
	return &Wizard{
		ID:        id,
		Step:      StepIdentity,
		Form:      RegistrationForm{FarmingMethod: entity.DefaultFarmingMethod},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Update applies patch. Any step except SUBMITTED may edit any field.
func (w *Wizard) Update(patch FormPatch, now time.Time) error {
	if w.Step == StepSubmitted {
		return fmt.Errorf("%w: registration already submitted", ErrWizardStep)
	}
	patch.apply(&w.Form)
	w.UpdatedAt = now
	return nil
}

// CheckStep validates the fields gating the current step.
func (w *Wizard) CheckStep() error {
	gate, ok := gates[w.Step]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWizardStep, w.Step)
	}
	return toValidationError(Validator().StructPartial(w.Form, gate.fields...))
}

// Next advances from IDENTITY or FARM_DETAILS.
func (w *Wizard) Next(now time.Time) error {
	if w.Step != StepIdentity && w.Step != StepFarmDetails {
		return fmt.Errorf("%w: cannot advance from %s", ErrWizardStep, w.Step)
	}
	if err := w.CheckStep(); err != nil {
		return err
	}
	w.Step = gates[w.Step].next
	w.UpdatedAt = now
	return nil
}

// Back moves to the previous step. It returns true when the wizard was at
// IDENTITY, meaning the farmer cancelled and the session should be discarded.
func (w *Wizard) Back(now time.Time) (bool, error) {
	if w.Step == StepSubmitted {
		return false, fmt.Errorf("%w: registration already submitted", ErrWizardStep)
	}
	prev, ok := previous[w.Step]
	if !ok {
		return true, nil
	}
	w.Step = prev
	w.UpdatedAt = now
	return false, nil
}

// Submit validates the documents step and then the whole form, since earlier
// answers may have been edited after their step was passed.
func (w *Wizard) Submit() (entity.FarmerApplication, error) {
	if w.Step != StepDocuments {
		return entity.FarmerApplication{}, fmt.Errorf("%w: submit is only possible from %s", ErrWizardStep, StepDocuments)
	}
	if err := w.CheckStep(); err != nil {
		return entity.FarmerApplication{}, err
	}
	if err := toValidationError(Validator().Struct(w.Form)); err != nil {
		return entity.FarmerApplication{}, err
	}
	return w.Form.Application(), nil
}

// Complete marks the wizard as submitted once the registration is stored.
func (w *Wizard) Complete(now time.Time) {
	w.Step = StepSubmitted
	w.UpdatedAt = now
}
