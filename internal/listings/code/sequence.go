package code

import (
	"context"
	"database/sql"
	"fmt"
)

// SequenceRepo counts existing projects per (year, city) over database/sql.
type SequenceRepo struct {
	db *sql.DB
}

func NewSequenceRepo(db *sql.DB) *SequenceRepo {
	return &SequenceRepo{db: db}
}

// CountForYearCity returns the number of projects created for the city in
// the given year.
func (r *SequenceRepo) CountForYearCity(ctx context.Context, year int, city string) (int, error) {
	const q = `
SELECT COUNT(*)
FROM projects
WHERE city = $1 AND EXTRACT(YEAR FROM created_at) = $2;
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, city, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects for sequence: %w", err)
	}
	return count, nil
}
