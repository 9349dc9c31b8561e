package prescription

import (
	"fmt"

	"github.com/google/uuid"
)

// Category groups medications by therapeutic use.
type Category string

const (
	CategoryAntibiotic       Category = "antibiotic"
	CategoryAntihypertensive Category = "antihypertensive"
	CategoryAntidiabetic     Category = "antidiabetic"
	CategoryAnalgesic        Category = "analgesic"
	CategoryAnticoagulant    Category = "anticoagulant"
	CategoryAntidepressant   Category = "antidepressant"
	CategoryCholesterol      Category = "cholesterol"
	CategoryCardiovascular   Category = "cardiovascular"
	CategoryRespiratory      Category = "respiratory"
	CategoryGastrointestinal Category = "gastrointestinal"
	CategoryHormone          Category = "hormone"
	CategoryVitamin          Category = "vitamin"
	CategoryOther            Category = "other"
)

// InsuranceTier is a medication's formulary tier; the tier fixes the copay.
type InsuranceTier int

const (
	Tier1 InsuranceTier = 1 // generic
	Tier2 InsuranceTier = 2 // preferred brand
	Tier3 InsuranceTier = 3 // non-preferred brand
	Tier4 InsuranceTier = 4 // specialty
)

// Copay returns the flat copay amount for the tier.
func (t InsuranceTier) Copay() float64 {
	switch t {
	case Tier1:
		return 10.0
	case Tier2:
		return 25.0
	case Tier3:
		return 50.0
	case Tier4:
		return 100.0
	}
	return 0
}

// DisplayName returns the human-readable form of the tier.
func (t InsuranceTier) DisplayName() string {
	switch t {
	case Tier1:
		return "Tier 1 - Generic"
	case Tier2:
		return "Tier 2 - Preferred Brand"
	case Tier3:
		return "Tier 3 - Non-Preferred Brand"
	case Tier4:
		return "Tier 4 - Specialty"
	}
	return fmt.Sprintf("Tier %d", int(t))
}

// Medication is a catalog entry for a pharmaceutical product.
type Medication struct {
	ID                   string        `json:"id"`
	GenericName          string        `json:"generic_name"`
	BrandName            string        `json:"brand_name"`
	Manufacturer         string        `json:"manufacturer"`
	Category             Category      `json:"category"`
	Strength             string        `json:"strength"`
	Form                 string        `json:"form"`
	InsuranceTier        InsuranceTier `json:"insurance_tier"`
	WholesalePrice       float64       `json:"wholesale_price"`
	RetailPrice          float64       `json:"retail_price"`
	RequiresPrescription bool          `json:"requires_prescription"`
	DosageInstructions   string        `json:"dosage_instructions,omitempty"`
}

// NewMedication catalogs a prescription-only medication.
func NewMedication(genericName, brandName, manufacturer string, category Category, strength, form string, tier InsuranceTier, wholesalePrice, retailPrice float64) *Medication {
	return &Medication{
		ID:                   "MED-" + uuid.NewString()[:8],
		GenericName:          genericName,
		BrandName:            brandName,
		Manufacturer:         manufacturer,
		Category:             category,
		Strength:             strength,
		Form:                 form,
		InsuranceTier:        tier,
		WholesalePrice:       wholesalePrice,
		RetailPrice:          retailPrice,
		RequiresPrescription: true,
	}
}

// PatientCost is what the insured patient pays: the tier copay, capped at
// the retail price for cheap medications.
func (m *Medication) PatientCost() float64 {
	copay := m.InsuranceTier.Copay()
	if m.RetailPrice > 0 && m.RetailPrice < copay {
		return m.RetailPrice
	}
	return copay
}

// DisplayName renders the medication for dropdowns and labels.
func (m *Medication) DisplayName() string {
	if m.BrandName != "" && m.BrandName != m.GenericName {
		return fmt.Sprintf("%s (%s) %s", m.BrandName, m.GenericName, m.Strength)
	}
	return fmt.Sprintf("%s %s", m.GenericName, m.Strength)
}
