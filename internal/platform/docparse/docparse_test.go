package docparse

import (
	"strings"
	"testing"
)

func TestParseFullDocument(t *testing.T) {
	doc := `Patient Name: Jane Doe
Service Date: 03/15/2025
Provider Name: City General Hospital
Diagnosis: Acute appendicitis
Service Type: Emergency Room
Claim Amount: $1,250 fee of 850.00`

	f := Parse(strings.NewReader(doc))

	if f.PatientName != "Jane Doe" {
		t.Errorf("patient name = %q", f.PatientName)
	}
	if f.ServiceDate != "03/15/2025" {
		t.Errorf("service date = %q", f.ServiceDate)
	}
	if f.ProviderName != "City General Hospital" {
		t.Errorf("provider = %q", f.ProviderName)
	}
	if f.Diagnosis != "Acute appendicitis" {
		t.Errorf("diagnosis = %q", f.Diagnosis)
	}
	if f.ServiceType != "emergency-room" {
		t.Errorf("service type = %q", f.ServiceType)
	}
}

func TestParseAmountForms(t *testing.T) {
	cases := []struct {
		line string
		want float64
	}{
		{"Claim Amount: $850.00", 850.00},
		{"Claim Amount: 850.00", 850.00},
		{"Amount: $ 42.50", 42.50},
		{"Claim Amount: eight hundred", 0},
		{"Claim Amount: $850", 0},
	}
	for _, tc := range cases {
		f := Parse(strings.NewReader(tc.line))
		if f.Amount != tc.want {
			t.Errorf("%q: amount = %v, want %v", tc.line, f.Amount, tc.want)
		}
	}
}

func TestParseDropsMalformedValues(t *testing.T) {
	doc := `Service Date: 13/45/2025
Service Type: Spa Treatment
Unknown Label: whatever
no colon line`

	f := Parse(strings.NewReader(doc))
	if f.ServiceDate != "" {
		t.Errorf("invalid date should be dropped, got %q", f.ServiceDate)
	}
	if f.ServiceType != "" {
		t.Errorf("unknown service type should be dropped, got %q", f.ServiceType)
	}
}

func TestParseEmptyValuesIgnored(t *testing.T) {
	f := Parse(strings.NewReader("Diagnosis:\nProvider Name:   "))
	if f.Diagnosis != "" || f.ProviderName != "" {
		t.Errorf("empty values should be ignored, got %+v", f)
	}
}

func TestParseAlternateLabels(t *testing.T) {
	doc := `Date of Service: 01/02/2024
Provider: Dr. Lin
Type of Service: Doctor Visit
Patient: Bob Smith`

	f := Parse(strings.NewReader(doc))
	if f.ServiceDate != "01/02/2024" {
		t.Errorf("service date = %q", f.ServiceDate)
	}
	if f.ProviderName != "Dr. Lin" {
		t.Errorf("provider = %q", f.ProviderName)
	}
	if f.ServiceType != "doctor-visit" {
		t.Errorf("service type = %q", f.ServiceType)
	}
	if f.PatientName != "Bob Smith" {
		t.Errorf("patient = %q", f.PatientName)
	}
}
