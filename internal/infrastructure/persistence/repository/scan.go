package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/garyjia/claim-adjudication/internal/domain/claim"
)

// Monetary values are stored as TEXT so sqlite never coerces them through
// floating point.

func decToDB(d decimal.Decimal) string {
	return d.String()
}

func decFromDB(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, err)
	}
	return d, nil
}

func nullDecToDB(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullDecFromDB(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decFromDB(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullTimeToDB(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeFromDB(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Attachment reference lists are opaque file ids serialized as JSON.

func attachmentsToDB(refs []string) string {
	if len(refs) == 0 {
		return "[]"
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func attachmentsFromDB(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(s), &refs); err != nil {
		return nil
	}
	return refs
}

// mapConstraintErr converts a unique-constraint violation into the domain
// conflict error so racing writers retry instead of seeing a driver error.
func mapConstraintErr(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%w: %v", claim.ErrConflict, err)
		}
	}
	return err
}
