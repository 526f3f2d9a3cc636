package entity

import "slices"

// AllRegions is the marketplace filter value that matches every region.
const AllRegions = "All"

// Regions are the states the marketplace currently lists produce from.
var Regions = []string{"Lagos", "Abuja (FCT)", "Ogun", "Oyo", "Kano", "Kaduna", "Rivers", "Enugu", "Benue", "Plateau"}

var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue", "Borno", "Cross River",
	"Delta", "Ebonyi", "Edo", "Ekiti", "Enugu", "FCT - Abuja", "Gombe", "Imo", "Jigawa", "Kaduna",
	"Kano", "Katsina", "Kebbi", "Kogi", "Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun",
	"Oyo", "Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara",
}

var Categories = []string{"Vegetables", "Fruits", "Tubers", "Grains", "Poultry", "Livestock"}

var FarmingMethods = []string{"Conventional", "Organic", "Hydroponic", "Mixed", "Livestock"}

const DefaultFarmingMethod = "Conventional"

// RegionForState maps a state of residence to the marketplace region it
// lists under. Most states have no region yet.
func RegionForState(state string) (string, bool) {
	if state == "FCT - Abuja" {
		return "Abuja (FCT)", true
	}
	if IsRegion(state) {
		return state, true
	}
	return "", false
}

func IsRegion(s string) bool        { return slices.Contains(Regions, s) }
func IsNigerianState(s string) bool { return slices.Contains(NigerianStates, s) }
func IsCategory(s string) bool      { return slices.Contains(Categories, s) }
