package entity

import (
	"time"
)

type Product struct {
	ID          string  `json:"id" firestore:"id" yaml:"id"`
	Name        string  `json:"name" firestore:"name" yaml:"name"`
	Category    string  `json:"category" firestore:"category" yaml:"category"`
	Price       float64 `json:"price" firestore:"price" yaml:"price"`
	Unit        string  `json:"unit" firestore:"unit" yaml:"unit"`
	Quantity    int     `json:"quantity" firestore:"quantity" yaml:"quantity"`
	FarmerID    string  `json:"farmer_id" firestore:"farmerId" yaml:"farmerId"`
	FarmerName  string  `json:"farmer_name" firestore:"farmerName" yaml:"farmerName"`
	State       string  `json:"state" firestore:"state" yaml:"state"`
	ImageURL    string  `json:"image_url,omitempty" firestore:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty" firestore:"description,omitempty" yaml:"description,omitempty"`

	// Verified is the owner's verification status when the listing was
	// created. It is not updated when the farmer is approved later.
	Verified bool `json:"verified" firestore:"verified" yaml:"verified"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt" yaml:"createdAt"`
}

type ProductFilter struct {
	State    string
	Category string
	FarmerID string
}

// Matches applies the filter in memory. An empty or "All" state matches
// every region.
func (f ProductFilter) Matches(p *Product) bool {
	if f.State != "" && f.State != AllRegions && p.State != f.State {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.FarmerID != "" && p.FarmerID != f.FarmerID {
		return false
	}
	return true
}
