// Package docparse extracts claim fields from plain-text supporting
// documents. Documents are "Label: value" lines; unrecognized labels and
// malformed values are dropped silently so a partial document still
// yields whatever was readable.
package docparse

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Fields holds whatever was recognized in a document. Zero values mean
// the label was absent or its value was malformed.
type Fields struct {
	ServiceDate  string  `json:"service_date,omitempty"`
	ProviderName string  `json:"provider_name,omitempty"`
	Diagnosis    string  `json:"diagnosis,omitempty"`
	ServiceType  string  `json:"service_type,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	PatientName  string  `json:"patient_name,omitempty"`
}

var amountPattern = regexp.MustCompile(`\$?\s*(\d+\.\d{2})`)

// serviceTypeCodes maps the human labels found in documents to the
// service type codes used on claims.
var serviceTypeCodes = map[string]string{
	"emergency room":          "emergency-room",
	"emergency room visit":    "emergency-room",
	"hospital stay":           "hospital-stay",
	"surgery":                 "surgery",
	"doctor visit":            "doctor-visit",
	"diagnostic test":         "diagnostic-test",
	"prescription medication": "prescription-medication",
	"physical therapy":        "physical-therapy",
	"dental":                  "dental",
	"vision":                  "vision",
	"other":                   "other",
}

// Parse reads a document and returns the recognized fields.
func Parse(r io.Reader) Fields {
	var f Fields
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		label, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "service date", "date of service":
			if _, err := time.Parse("01/02/2006", value); err == nil {
				f.ServiceDate = value
			}
		case "provider name", "provider":
			f.ProviderName = value
		case "diagnosis":
			f.Diagnosis = value
		case "service type", "type of service":
			if code, ok := serviceTypeCodes[strings.ToLower(value)]; ok {
				f.ServiceType = code
			}
		case "claim amount", "amount", "total amount":
			m := amountPattern.FindStringSubmatch(value)
			if m == nil {
				continue
			}
			if amt, err := strconv.ParseFloat(m[1], 64); err == nil {
				f.Amount = amt
			}
		case "patient name", "patient":
			f.PatientName = value
		}
	}
	return f
}

// ParseFile opens path and parses its contents.
func ParseFile(path string) (Fields, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fields{}, err
	}
	defer file.Close()
	return Parse(file), nil
}
