package advocate

import (
	"strconv"
	"strings"
)

// Filter returns the records for which at least one searchable field contains
// query, ignoring case. Searchable fields are first name, last name, city,
// degree, each specialty, and the decimal text of years of experience and
// phone number. The result keeps the input order. An empty query keeps every
// record. The result never aliases records.
func Filter(records []Advocate, query string) []Advocate {
	q := strings.ToLower(query)
	out := make([]Advocate, 0, len(records))
	for _, a := range records {
		if matches(a, q) {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Matches reports whether a would be kept by Filter for query.
func Matches(a Advocate, query string) bool {
	return matches(a, strings.ToLower(query))
}

// matches expects q already lowercased.
func matches(a Advocate, q string) bool {
	if q == "" {
		return true
	}
	if containsFold(a.FirstName, q) ||
		containsFold(a.LastName, q) ||
		containsFold(a.City, q) ||
		containsFold(a.Degree, q) {
		return true
	}
	for _, s := range a.Specialties {
		if containsFold(s, q) {
			return true
		}
	}
	return strings.Contains(strconv.Itoa(a.YearsOfExperience), q) ||
		strings.Contains(a.PhoneDigits(), q)
}

func containsFold(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}
