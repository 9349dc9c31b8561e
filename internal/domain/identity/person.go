// Package identity holds people and accounts: the Person value shared by
// patients and employees, and the User login records.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is a postal address.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// IsEmpty reports whether no address fields are set.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

func (a Address) String() string {
	parts := []string{}
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Person is the demographic core shared by patients and employees. Patient
// and Employee embed it by value rather than extending it.
type Person struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     Address   `json:"address,omitempty"`
	CreatedDate time.Time `json:"created_date"`
}

// NewPerson records a person with a generated PRS- id.
func NewPerson(firstName, lastName string, dateOfBirth time.Time, gender, email, phone string) Person {
	return Person{
		ID:          "PRS-" + uuid.NewString()[:8],
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dateOfBirth,
		Gender:      gender,
		Email:       email,
		PhoneNumber: phone,
		CreatedDate: today(),
	}
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FullName returns "First Last".
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age returns the person's age in whole years, or -1 when the date of birth
// is unknown.
func (p Person) Age() int {
	if p.DateOfBirth.IsZero() {
		return -1
	}
	now := today()
	years := now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	return years
}

func (p Person) String() string {
	return fmt.Sprintf("%s (%s)", p.FullName(), p.ID)
}
