package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	apperrors "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/postgres"
)

const table = "advocates"

var columns = []string{
	"id",
	"first_name",
	"last_name",
	"city",
	"degree",
	"specialties",
	"years_of_experience",
	"phone_number",
	"created_at",
}

var insertColumns = columns[1:8]

// Schema creates the advocates table. It is safe to run repeatedly.
//
//	id serial, names/city/degree text, specialties jsonb array,
//	years_of_experience integer, phone_number bigint, created_at timestamptz
const Schema = `CREATE TABLE IF NOT EXISTS advocates (
	id                  SERIAL PRIMARY KEY,
	first_name          TEXT NOT NULL,
	last_name           TEXT NOT NULL,
	city                TEXT NOT NULL,
	degree              TEXT NOT NULL,
	specialties         JSONB NOT NULL DEFAULT '[]'::jsonb,
	years_of_experience INTEGER NOT NULL,
	phone_number        BIGINT NOT NULL,
	created_at          TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)`

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Postgres reads advocates from the advocates table.
type Postgres struct {
	db     *postgres.Client
	logger *slog.Logger
}

func NewPostgres(db *postgres.Client) *Postgres {
	return &Postgres{
		db:     db,
		logger: slog.Default().With("component", "postgres-source"),
	}
}

func selectAll() squirrel.SelectBuilder {
	return builder().Select(columns...).From(table).OrderBy("id ASC")
}

// ListAll selects every row in id order.
func (p *Postgres) ListAll(ctx context.Context) ([]advocate.Advocate, error) {
	query, args, err := selectAll().ToSql()
	if err != nil {
		return nil, fmt.Errorf("building advocate query: %w", err)
	}
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(fmt.Errorf("querying advocates: %w", err))
	}
	defer rows.Close()

	records := make([]advocate.Advocate, 0, 64)
	for rows.Next() {
		a, err := scanAdvocate(rows)
		if err != nil {
			return nil, unavailable(err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(fmt.Errorf("iterating advocates: %w", err))
	}
	if err := advocate.ValidateAll(records); err != nil {
		return nil, unavailable(fmt.Errorf("%w: %w", apperrors.ErrInvalidRecord, err))
	}
	p.logger.Debug("advocates loaded", "count", len(records))
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAdvocate(row scanner) (advocate.Advocate, error) {
	var (
		a           advocate.Advocate
		specialties []byte
		createdAt   sql.NullTime
	)
	if err := row.Scan(
		&a.ID,
		&a.FirstName,
		&a.LastName,
		&a.City,
		&a.Degree,
		&specialties,
		&a.YearsOfExperience,
		&a.PhoneNumber,
		&createdAt,
	); err != nil {
		return a, fmt.Errorf("scanning advocate row: %w", err)
	}
	if len(specialties) > 0 {
		if err := json.Unmarshal(specialties, &a.Specialties); err != nil {
			return a, fmt.Errorf("decoding specialties for advocate %d: %w", a.ID, err)
		}
	}
	if createdAt.Valid {
		a.CreatedAt = createdAt.Time
	}
	return a, nil
}

// EnsureSchema creates the advocates table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating advocates table: %w", err)
	}
	return nil
}

// Seed inserts records in one transaction. With replace, existing rows are
// deleted first so the table holds exactly records.
func (p *Postgres) Seed(ctx context.Context, records []advocate.Advocate, replace bool) (int, error) {
	if err := advocate.ValidateAllNew(records); err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	if err := p.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	if len(records) == 0 && !replace {
		return 0, nil
	}
	insert, err := insertAll(records)
	if err != nil {
		return 0, err
	}
	err = p.db.InTx(ctx, func(tx *sql.Tx) error {
		if replace {
			query, args, err := builder().Delete(table).ToSql()
			if err != nil {
				return fmt.Errorf("building delete: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clearing advocates: %w", err)
			}
		}
		if insert == nil {
			return nil
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting advocates: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.logger.Info("advocates seeded", "count", len(records), "replace", replace)
	return len(records), nil
}

// insertAll builds one multi-row INSERT, or nil for no records. Specialties
// travel as JSON text so postgres casts them to jsonb.
func insertAll(records []advocate.Advocate) (*squirrel.InsertBuilder, error) {
	if len(records) == 0 {
		return nil, nil
	}
	insert := builder().Insert(table).Columns(insertColumns...)
	for _, a := range records {
		specialties := a.Specialties
		if specialties == nil {
			specialties = []string{}
		}
		encoded, err := json.Marshal(specialties)
		if err != nil {
			return nil, fmt.Errorf("encoding specialties for %s: %w", a, err)
		}
		insert = insert.Values(
			a.FirstName,
			a.LastName,
			a.City,
			a.Degree,
			string(encoded),
			a.YearsOfExperience,
			a.PhoneNumber,
		)
	}
	return &insert, nil
}
