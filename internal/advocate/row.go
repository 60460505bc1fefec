package advocate

// Row is the display projection of an Advocate: one table row with the
// phone already formatted.
type Row struct {
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	City              string   `json:"city"`
	Degree            string   `json:"degree"`
	Specialties       []string `json:"specialties"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	PhoneNumber       int64    `json:"phoneNumber"`
	Phone             string   `json:"formattedPhone"`
}

// NewRow projects a for display, substituting PhonePlaceholder when the phone
// number does not have ten digits.
func NewRow(a Advocate) Row {
	phone, ok := a.FormattedPhone()
	if !ok {
		phone = PhonePlaceholder
	}
	specialties := a.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return Row{
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		City:              a.City,
		Degree:            a.Degree,
		Specialties:       specialties,
		YearsOfExperience: a.YearsOfExperience,
		PhoneNumber:       a.PhoneNumber,
		Phone:             phone,
	}
}

// Rows projects every record in order.
func Rows(records []Advocate) []Row {
	rows := make([]Row, len(records))
	for i, a := range records {
		rows[i] = NewRow(a)
	}
	return rows
}
