package entity

import (
	"time"
)

const (
	InitialTrustScore  = 50
	VerifiedTrustScore = 80
)

type FarmerProfile struct {
	ID         string  `json:"id" firestore:"id" yaml:"id"`
	Name       string  `json:"name" firestore:"name" yaml:"name"`
	Location   string  `json:"location" firestore:"location" yaml:"location"`
	Verified   bool    `json:"verified" firestore:"verified" yaml:"verified"`
	Rating     float64 `json:"rating" firestore:"rating" yaml:"rating"`
	JoinedDate string  `json:"joined_date" firestore:"joinedDate" yaml:"joinedDate"`
	TrustScore int     `json:"trust_score" firestore:"trustScore" yaml:"trustScore"`

	Phone            string   `json:"phone,omitempty" firestore:"phone,omitempty" yaml:"phone,omitempty"`
	StateOfOrigin    string   `json:"state_of_origin,omitempty" firestore:"stateOfOrigin,omitempty" yaml:"stateOfOrigin,omitempty"`
	StateOfResidence string   `json:"state_of_residence,omitempty" firestore:"stateOfResidence,omitempty" yaml:"stateOfResidence,omitempty"`
	FarmName         string   `json:"farm_name,omitempty" firestore:"farmName,omitempty" yaml:"farmName,omitempty"`
	FarmSize         string   `json:"farm_size,omitempty" firestore:"farmSize,omitempty" yaml:"farmSize,omitempty"`
	FarmingMethod    string   `json:"farming_method,omitempty" firestore:"farmingMethod,omitempty" yaml:"farmingMethod,omitempty"`
	MainCrops        []string `json:"main_crops,omitempty" firestore:"mainCrops,omitempty" yaml:"mainCrops,omitempty"`
	NIN              string   `json:"nin,omitempty" firestore:"nin,omitempty" yaml:"nin,omitempty"`

	// Verification documents (references, not uploads)
	PassportPhotoURL string `json:"passport_photo_url,omitempty" firestore:"passportPhotoUrl,omitempty" yaml:"passportPhotoUrl,omitempty"`
	NINImageURL      string `json:"nin_image_url,omitempty" firestore:"ninImageUrl,omitempty" yaml:"ninImageUrl,omitempty"`
	IDImageURL       string `json:"id_image_url,omitempty" firestore:"idImageUrl,omitempty" yaml:"idImageUrl,omitempty"`
}

// Pending reports whether the profile still awaits an admin decision.
func (f *FarmerProfile) Pending() bool {
	return !f.Verified
}

// DisplayName prefers the farm name, which is what marketplace listings show.
func (f *FarmerProfile) DisplayName() string {
	if f.FarmName != "" {
		return f.FarmName
	}
	return f.Name
}

// FarmerSummary is the public view of a farmer. Contact details and
// verification documents stay with the owner and admins.
type FarmerSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	FarmName   string   `json:"farm_name,omitempty"`
	Location   string   `json:"location"`
	Verified   bool     `json:"verified"`
	Rating     float64  `json:"rating"`
	TrustScore int      `json:"trust_score"`
	JoinedDate string   `json:"joined_date"`
	MainCrops  []string `json:"main_crops,omitempty"`
}

func (f *FarmerProfile) Public() FarmerSummary {
	return FarmerSummary{
		ID:         f.ID,
		Name:       f.Name,
		FarmName:   f.FarmName,
		Location:   f.Location,
		Verified:   f.Verified,
		Rating:     f.Rating,
		TrustScore: f.TrustScore,
		JoinedDate: f.JoinedDate,
		MainCrops:  f.MainCrops,
	}
}

// FarmerApplication is a complete submission from the registration wizard.
type FarmerApplication struct {
	FirstName        string   `json:"first_name" validate:"required"`
	LastName         string   `json:"last_name"`
	Phone            string   `json:"phone" validate:"required"`
	StateOfOrigin    string   `json:"state_of_origin" validate:"omitempty,ngstate"`
	StateOfResidence string   `json:"state_of_residence" validate:"required,ngstate"`
	FarmName         string   `json:"farm_name" validate:"required"`
	FarmSize         string   `json:"farm_size"`
	FarmingMethod    string   `json:"farming_method" validate:"omitempty,oneof=Conventional Organic Hydroponic Mixed Livestock"`
	MainCrops        []string `json:"main_crops" validate:"required,min=1,dive,required"`
	NIN              string   `json:"nin" validate:"required"`
	PassportPhotoURL string   `json:"passport_photo_url"`
	NINImageURL      string   `json:"nin_image_url" validate:"required"`
	IDImageURL       string   `json:"id_image_url"`
}

// RejectionRecord archives an application the admin turned down.
type RejectionRecord struct {
	ID         string    `json:"id" firestore:"id"`
	FarmerID   string    `json:"farmer_id" firestore:"farmerId"`
	Name       string    `json:"name" firestore:"name"`
	FarmName   string    `json:"farm_name,omitempty" firestore:"farmName,omitempty"`
	Phone      string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	NIN        string    `json:"nin,omitempty" firestore:"nin,omitempty"`
	Reason     string    `json:"reason" firestore:"reason"`
	RejectedBy string    `json:"rejected_by" firestore:"rejectedBy"`
	RejectedAt time.Time `json:"rejected_at" firestore:"rejectedAt"`
}
