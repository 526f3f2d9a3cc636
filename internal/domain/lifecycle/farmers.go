package lifecycle

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"agrotrust/internal/domain/entity"
)

const joinedDateLayout = "2006-01-02"

// NormalizeApplication trims free-text fields, cleans the crop list and fills
// in the default farming method.
func NormalizeApplication(app entity.FarmerApplication) entity.FarmerApplication {
	app.FirstName = strings.TrimSpace(app.FirstName)
	app.LastName = strings.TrimSpace(app.LastName)
	app.Phone = strings.TrimSpace(app.Phone)
	app.StateOfOrigin = strings.TrimSpace(app.StateOfOrigin)
	app.StateOfResidence = strings.TrimSpace(app.StateOfResidence)
	app.FarmName = strings.TrimSpace(app.FarmName)
	app.FarmSize = strings.TrimSpace(app.FarmSize)
	app.FarmingMethod = strings.TrimSpace(app.FarmingMethod)
	if app.FarmingMethod == "" {
		app.FarmingMethod = entity.DefaultFarmingMethod
	}
	app.MainCrops = NormalizeCrops(app.MainCrops)
	app.NIN = strings.TrimSpace(app.NIN)
	app.NINImageURL = strings.TrimSpace(app.NINImageURL)
	return app
}

// ValidateApplication checks every required field at once and returns a
// *ValidationError naming all of the missing ones.
func ValidateApplication(app entity.FarmerApplication) error {
	return toValidationError(Validator().Struct(app))
}

// Register appends a new pending profile built from app. The input slice is
// not modified. Incomplete applications are rejected with a
// *ValidationError and a phone or NIN already on file yields
// ErrDuplicateFarmer.
func Register(farmers []entity.FarmerProfile, app entity.FarmerApplication, id string, now time.Time) ([]entity.FarmerProfile, entity.FarmerProfile, error) {
	app = NormalizeApplication(app)
	if err := ValidateApplication(app); err != nil {
		return farmers, entity.FarmerProfile{}, err
	}

	for _, f := range farmers {
		if f.ID == id {
			return farmers, entity.FarmerProfile{}, fmt.Errorf("%w: profile %s already exists", ErrDuplicateFarmer, id)
		}
		if f.Phone != "" && f.Phone == app.Phone {
			return farmers, entity.FarmerProfile{}, fmt.Errorf("%w: phone %s", ErrDuplicateFarmer, app.Phone)
		}
		if f.NIN != "" && f.NIN == app.NIN {
			return farmers, entity.FarmerProfile{}, fmt.Errorf("%w: NIN already on file", ErrDuplicateFarmer)
		}
	}

	profile := entity.FarmerProfile{
		ID:               id,
		Name:             strings.TrimSpace(app.FirstName + " " + app.LastName),
		Location:         app.StateOfResidence,
		Verified:         false,
		Rating:           0,
		JoinedDate:       now.Format(joinedDateLayout),
		TrustScore:       entity.InitialTrustScore,
		Phone:            app.Phone,
		StateOfOrigin:    app.StateOfOrigin,
		StateOfResidence: app.StateOfResidence,
		FarmName:         app.FarmName,
		FarmSize:         app.FarmSize,
		FarmingMethod:    app.FarmingMethod,
		MainCrops:        app.MainCrops,
		NIN:              app.NIN,
		PassportPhotoURL: app.PassportPhotoURL,
		NINImageURL:      app.NINImageURL,
		IDImageURL:       app.IDImageURL,
	}

	next := append(slices.Clone(farmers), profile)
	return next, profile, nil
}

// Approve marks the profile verified with the verified trust score. Approving
// an already verified profile yields the same state.
func Approve(farmers []entity.FarmerProfile, id string) ([]entity.FarmerProfile, entity.FarmerProfile, error) {
	i := indexOf(farmers, id)
	if i < 0 {
		return farmers, entity.FarmerProfile{}, ErrFarmerNotFound
	}

	next := slices.Clone(farmers)
	next[i].Verified = true
	next[i].TrustScore = entity.VerifiedTrustScore
	return next, next[i], nil
}

// Reject removes exactly the profile with id. The boolean is false, and the
// collection returned untouched, when no such profile exists.
func Reject(farmers []entity.FarmerProfile, id string) ([]entity.FarmerProfile, entity.FarmerProfile, bool) {
	i := indexOf(farmers, id)
	if i < 0 {
		return farmers, entity.FarmerProfile{}, false
	}

	removed := farmers[i]
	next := make([]entity.FarmerProfile, 0, len(farmers)-1)
	next = append(next, farmers[:i]...)
	next = append(next, farmers[i+1:]...)
	return next, removed, true
}

// Pending returns the profiles awaiting verification, in collection order.
func Pending(farmers []entity.FarmerProfile) []entity.FarmerProfile {
	out := make([]entity.FarmerProfile, 0)
	for _, f := range farmers {
		if f.Pending() {
			out = append(out, f)
		}
	}
	return out
}

func indexOf(farmers []entity.FarmerProfile, id string) int {
	return slices.IndexFunc(farmers, func(f entity.FarmerProfile) bool { return f.ID == id })
}
