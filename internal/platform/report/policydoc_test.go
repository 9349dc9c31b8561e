package report

import (
	"strings"
	"testing"
	"time"

	"github.com/hg360/hg360/internal/domain/policy"
)

func testPolicy() *policy.Policy {
	p := policy.New("PAT-101", policy.TypeFamilyPPO, 500000, 2000, 50, "ENT-001",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 2)
	p.Number = "POL-2024-1001"
	p.MonthlyPremium = 450
	p.AddBeneficiary("Spouse")
	p.AddBeneficiary("Child 1")
	return p
}

func TestPolicyDocumentSections(t *testing.T) {
	doc := string(PolicyDocument(testPolicy(), "John Smith"))

	for _, want := range []string{
		"HEALTHGUARD360",
		"Insurance Policy Document",
		"Policy Information",
		"Coverage Details",
		"Policy Dates & Status",
		"Beneficiaries",
		"POL-2024-1001",
		"Family PPO",
		"John Smith",
		"$500,000.00",
		"$450.00/month",
		"$5,400.00/year",
		"01/15/2024",
		"01/15/2026",
		"Spouse, Child 1",
		"official policy document",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestPolicyDocumentNoHolderName(t *testing.T) {
	doc := string(PolicyDocument(testPolicy(), ""))
	if strings.Contains(doc, "Policyholder: ") {
		t.Error("holder line should be omitted when no name is given")
	}
	if !strings.Contains(doc, "PAT-101") {
		t.Error("policyholder id should always be present")
	}
}

func TestPolicyDocumentNoBeneficiaries(t *testing.T) {
	p := testPolicy()
	p.Beneficiaries = nil
	doc := string(PolicyDocument(p, ""))
	if !strings.Contains(doc, "None") {
		t.Error("empty beneficiary list should render as None")
	}
}

func TestMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{999.5, "$999.50"},
		{1000, "$1,000.00"},
		{500000, "$500,000.00"},
		{1234567.89, "$1,234,567.89"},
	}
	for _, tc := range cases {
		if got := money(tc.in); got != tc.want {
			t.Errorf("money(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
