package source

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	apperrors "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/errors"
)

//go:embed fixture/advocates.json
var fixtureJSON []byte

// Fixture serves a static record set compiled into the binary.
type Fixture struct {
	records []advocate.Advocate
	err     error
}

// NewFixture decodes the embedded seed data.
func NewFixture() *Fixture {
	records, err := DecodeRecords(fixtureJSON)
	return &Fixture{records: records, err: err}
}

// NewStatic serves records as given. Used by tests and the seed command.
func NewStatic(records []advocate.Advocate) *Fixture {
	return &Fixture{records: records, err: advocate.ValidateAll(records)}
}

// SeedData returns the embedded records.
func SeedData() ([]advocate.Advocate, error) {
	return DecodeRecords(fixtureJSON)
}

// DecodeRecords parses a JSON array of advocates and validates each one.
func DecodeRecords(data []byte) ([]advocate.Advocate, error) {
	var records []advocate.Advocate
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding advocate records: %w", err)
	}
	if err := advocate.ValidateAll(records); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidRecord, err)
	}
	return records, nil
}

func (f *Fixture) ListAll(ctx context.Context) ([]advocate.Advocate, error) {
	if f.err != nil {
		return nil, unavailable(f.err)
	}
	out := make([]advocate.Advocate, len(f.records))
	for i, a := range f.records {
		out[i] = a.Clone()
	}
	return out, nil
}
