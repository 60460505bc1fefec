package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/source"
	apperrors "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/errors"
)

func records() []advocate.Advocate {
	return []advocate.Advocate{
		{FirstName: "John", LastName: "Doe", City: "Miami", Degree: "MD", Specialties: []string{"Cardiology"}, YearsOfExperience: 10, PhoneNumber: 5551234567},
		{FirstName: "Jane", LastName: "Smith", City: "Austin", Degree: "PhD", Specialties: []string{"Pediatrics"}, YearsOfExperience: 5, PhoneNumber: 5559876543},
	}
}

func TestSessionStartsWithFullSet(t *testing.T) {
	s := NewSession(records())
	assert.Equal(t, "", s.Query())
	assert.Len(t, s.View(), 2)
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, 2, s.Matched())
}

func TestSessionSearchRecomputesFromFullSet(t *testing.T) {
	s := NewSession(records())

	assert.Len(t, s.Search("j"), 2)
	assert.Len(t, s.Search("ja"), 1)
	assert.Len(t, s.Search("jax"), 0)
	// Backspacing widens the view again: the filter always runs over the full set.
	assert.Len(t, s.Search("j"), 2)
	assert.Equal(t, "j", s.Query())
}

func TestSessionStoresLowercasedQuery(t *testing.T) {
	s := NewSession(records())
	s.Search("JANE")
	assert.Equal(t, "jane", s.Query())
	require.Len(t, s.View(), 1)
	assert.Equal(t, "Smith", s.View()[0].LastName)
}

func TestSessionClear(t *testing.T) {
	s := NewSession(records())
	s.Search("xyz")
	require.Empty(t, s.View())

	view := s.Clear()
	assert.Equal(t, "", s.Query())
	assert.Equal(t, records(), view)
}

func TestSessionViewNeverAliasesFullSet(t *testing.T) {
	for _, query := range []string{"", "cardio"} {
		t.Run("query="+query, func(t *testing.T) {
			s := NewSession(records())
			view := s.Search(query)
			require.NotEmpty(t, view)
			view[0].FirstName = "Mutated"
			view[0].Specialties[0] = "Mutated"

			fresh := s.Clear()
			assert.Equal(t, records(), fresh)
		})
	}
}

func TestSessionRowsFormatPhones(t *testing.T) {
	s := NewSession(records())
	s.Search("cardio")
	rows := s.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "(555) 123-4567", rows[0].Phone)
}

func TestOpenLoadsFromSource(t *testing.T) {
	s, err := Open(context.Background(), source.NewStatic(records()))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Total())
}

func TestOpenPropagatesSourceFailure(t *testing.T) {
	failing := source.Func(func(context.Context) ([]advocate.Advocate, error) {
		return nil, apperrors.ErrSourceUnavailable
	})
	s, err := Open(context.Background(), failing)
	assert.Nil(t, s)
	require.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
}

func TestNewSessionNilRecords(t *testing.T) {
	s := NewSession(nil)
	assert.NotNil(t, s.View())
	assert.Empty(t, s.Search("a"))
}
