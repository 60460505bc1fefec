package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	apperrors "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/errors"
)

func TestFixtureListAll(t *testing.T) {
	records, err := NewFixture().ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 15)
	assert.Equal(t, "John", records[0].FirstName)
	assert.Equal(t, "Hall", records[14].LastName)
	for _, a := range records {
		_, ok := a.FormattedPhone()
		assert.True(t, ok, "fixture phone for %s must format", a)
	}
}

func TestFixtureReturnsIndependentCopies(t *testing.T) {
	f := NewFixture()
	first, err := f.ListAll(context.Background())
	require.NoError(t, err)
	first[0].Specialties[0] = "mutated"

	second, err := f.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bipolar", second[0].Specialties[0])
}

func TestStaticInvalidRecordFailsLoudly(t *testing.T) {
	f := NewStatic([]advocate.Advocate{{FirstName: "Neg", LastName: "Years", YearsOfExperience: -2, PhoneNumber: 5551234567}})
	records, err := f.ListAll(context.Background())
	assert.Nil(t, records)
	require.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
}

func TestStaticLoadsMalformedPhones(t *testing.T) {
	f := NewStatic([]advocate.Advocate{
		{FirstName: "John", LastName: "Doe", City: "Miami", Degree: "MD", PhoneNumber: 5551234567},
		{FirstName: "Short", LastName: "Phone", City: "Austin", Degree: "PhD", PhoneNumber: 12345},
		{FirstName: "No", LastName: "Phone", City: "", Degree: ""},
	})
	records, err := f.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	rows := advocate.Rows(records)
	assert.Equal(t, "(555) 123-4567", rows[0].Phone)
	assert.Equal(t, advocate.PhonePlaceholder, rows[1].Phone)
	assert.Equal(t, "—", rows[2].Phone)

	assert.Equal(t, []string{"Short"}, firstNames(advocate.Filter(records, "austin")))
}

func firstNames(records []advocate.Advocate) []string {
	out := make([]string, len(records))
	for i, a := range records {
		out[i] = a.FirstName
	}
	return out
}

func TestDecodeRecordsRejectsBadJSON(t *testing.T) {
	_, err := DecodeRecords([]byte(`{"not": "an array"}`))
	require.Error(t, err)

	_, err = DecodeRecords([]byte(`[{"firstName": "A", "yearsOfExperience": -1}]`))
	require.ErrorIs(t, err, apperrors.ErrInvalidRecord)

	records, err := DecodeRecords([]byte(`[{"firstName": "A", "phoneNumber": 123}]`))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSeedDataMatchesFixture(t *testing.T) {
	seed, err := SeedData()
	require.NoError(t, err)
	listed, err := NewFixture().ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seed, listed)
}
