// Package advocate defines the Advocate directory record, the multi-field
// substring filter applied to a loaded record set, and display helpers.
package advocate

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Advocate is one listed professional. Values are treated as immutable once
// loaded: the filter copies them, it never edits them.
type Advocate struct {
	ID                int64     `json:"id,omitempty"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	City              string    `json:"city"`
	Degree            string    `json:"degree"`
	Specialties       []string  `json:"specialties"`
	YearsOfExperience int       `json:"yearsOfExperience" validate:"gte=0"`
	PhoneNumber       int64     `json:"phoneNumber" validate:"gte=0"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
}

// Clone returns a copy that shares no slice storage with a.
func (a Advocate) Clone() Advocate {
	a.Specialties = slices.Clone(a.Specialties)
	return a
}

// PhoneDigits is the decimal text of the phone number, the form the filter
// searches.
func (a Advocate) PhoneDigits() string {
	return strconv.FormatInt(a.PhoneNumber, 10)
}

// FormattedPhone renders the phone number as "(XXX) XXX-XXXX".
func (a Advocate) FormattedPhone() (string, bool) {
	return FormatPhone(a.PhoneDigits())
}

func (a Advocate) String() string {
	return fmt.Sprintf("%s %s (%s)", a.FirstName, a.LastName, a.City)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structure of a record loaded from a source. Blank text
// fields and phone numbers that do not have ten digits still load; the
// display shows a placeholder for the phone.
func Validate(a Advocate) error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("advocate %q: %w", a.FirstName+" "+a.LastName, err)
	}
	return nil
}

// ValidateNew applies Validate plus the rules for records written to a store:
// both names present and a ten-digit phone number.
func ValidateNew(a Advocate) error {
	if err := Validate(a); err != nil {
		return err
	}
	checks := []struct {
		field string
		value any
		tag   string
	}{
		{"firstName", a.FirstName, "required"},
		{"lastName", a.LastName, "required"},
		{"phoneNumber", a.PhoneNumber, "gte=1000000000,lte=9999999999"},
	}
	for _, c := range checks {
		if err := validate.Var(c.value, c.tag); err != nil {
			return fmt.Errorf("advocate %q: %s: %w", a.FirstName+" "+a.LastName, c.field, err)
		}
	}
	return nil
}

// ValidateAll runs Validate over records and reports the first failure with
// its position.
func ValidateAll(records []Advocate) error {
	return validateEach(records, Validate)
}

// ValidateAllNew is ValidateAll with the ValidateNew rules.
func ValidateAllNew(records []Advocate) error {
	return validateEach(records, ValidateNew)
}

func validateEach(records []Advocate, check func(Advocate) error) error {
	for i, a := range records {
		if err := check(a); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
