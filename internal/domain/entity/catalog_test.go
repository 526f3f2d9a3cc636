package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegionForState(t *testing.T) {
	tests := []struct {
		state  string
		region string
		ok     bool
	}{
		{"FCT - Abuja", "Abuja (FCT)", true},
		{"Abuja (FCT)", "Abuja (FCT)", true},
		{"Kaduna", "Kaduna", true},
		{"Sokoto", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			region, ok := RegionForState(tt.state)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.region, region)
		})
	}
}

func TestPublicOmitsVerificationDocuments(t *testing.T) {
	f := FarmerProfile{
		ID: "f1", Name: "Musa Ibrahim", FarmName: "Green Valley Organics", Location: "Kaduna",
		Verified: true, TrustScore: 98, Phone: "08030000001", NIN: "11111111111",
		NINImageURL: "docs/nin.jpg", MainCrops: []string{"Maize"},
	}

	assert.Equal(t, FarmerSummary{
		ID: "f1", Name: "Musa Ibrahim", FarmName: "Green Valley Organics", Location: "Kaduna",
		Verified: true, TrustScore: 98, MainCrops: []string{"Maize"},
	}, f.Public())
}
