// Package report renders printable documents for policies. The output is
// plain text with fixed sections; callers decide where it goes (HTTP
// response, file, printer).
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/hg360/hg360/internal/domain/policy"
)

const docWidth = 72

// PolicyDocument renders the official policy document: header, policy
// information, coverage details, dates and status, beneficiaries, footer.
func PolicyDocument(p *policy.Policy, holderName string) []byte {
	var b strings.Builder

	rule := strings.Repeat("=", docWidth)
	thin := strings.Repeat("-", docWidth)

	b.WriteString(rule + "\n")
	b.WriteString(center("HEALTHGUARD360") + "\n")
	b.WriteString(center("Insurance Policy Document") + "\n")
	b.WriteString(rule + "\n\n")

	section(&b, thin, "Policy Information")
	field(&b, "Policy Number", p.Number)
	field(&b, "Policy Type", p.Type.DisplayName())
	if holderName != "" {
		field(&b, "Policyholder", holderName)
	}
	field(&b, "Policyholder ID", p.PatientID)
	b.WriteString("\n")

	section(&b, thin, "Coverage Details")
	field(&b, "Coverage Amount", money(p.CoverageAmount))
	field(&b, "Deductible", money(p.Deductible))
	field(&b, "Co-payment", fmt.Sprintf("$%.2f", p.Copayment))
	field(&b, "Monthly Premium", fmt.Sprintf("$%.2f/month", p.MonthlyPremium))
	field(&b, "Annual Premium", money(p.AnnualPremium())+"/year")
	b.WriteString("\n")

	section(&b, thin, "Policy Dates & Status")
	field(&b, "Start Date", p.StartDate.Format("01/02/2006"))
	field(&b, "Expiry Date", p.ExpiryDate.Format("01/02/2006"))
	field(&b, "Status", p.Status.DisplayName())
	b.WriteString("\n")

	section(&b, thin, "Beneficiaries")
	field(&b, "Listed Beneficiaries", p.BeneficiariesString())
	b.WriteString("\n")

	b.WriteString(thin + "\n")
	b.WriteString(fmt.Sprintf("Generated on %s by HealthGuard360 System\n",
		time.Now().Format("01/02/2006 03:04 PM")))
	b.WriteString("This is an official policy document. Please retain for your records.\n")
	b.WriteString(rule + "\n")

	return []byte(b.String())
}

func section(b *strings.Builder, thin, title string) {
	b.WriteString(title + "\n")
	b.WriteString(thin + "\n")
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-22s %s\n", label+":", value)
}

func center(s string) string {
	if len(s) >= docWidth {
		return s
	}
	return strings.Repeat(" ", (docWidth-len(s))/2) + s
}

// money formats an amount with thousands separators, e.g. $500,000.00.
func money(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "$" + strings.Join(groups, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}
