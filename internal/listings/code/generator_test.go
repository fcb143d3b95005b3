package code

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingSequence struct{}

func (failingSequence) CountForYearCity(context.Context, int, string) (int, error) {
	return 0, errors.New("connection refused")
}

func TestGenerator_Generate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("Dubai", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	g := NewGenerator(NewSequenceRepo(db), zap.NewNop())
	got := g.Generate(context.Background(), "Dubai", "Example Developer", 2025)

	assert.Equal(t, "DUB-ED2025006", got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerator_DegradedMode(t *testing.T) {
	g := NewGenerator(failingSequence{}, zap.NewNop())
	g.now = func() time.Time { return time.Unix(1767187342, 0) }

	got := g.Generate(context.Background(), "Dubai", "Example Developer", 2025)

	// 1767187342 % 1000 = 342: timestamp suffix instead of a failure.
	assert.Equal(t, "DUB-ED2025342", got)
}

func TestCityCode(t *testing.T) {
	cases := map[string]string{
		"Dubai":     "DUB",
		"Abu Dhabi": "ABU",
		"pune":      "PUN",
		"Al-Ain":    "ALA",
		"":          "",
	}
	for city, want := range cases {
		assert.Equal(t, want, CityCode(city), city)
	}
}

func TestDeveloperInitials(t *testing.T) {
	cases := map[string]string{
		"Example Developer":        "ED",
		"emaar":                    "E",
		"Alpha Beta Gamma Delta":   "ABG",
		"":                         "",
		"  spaced   out   tokens ": "SOT",
	}
	for name, want := range cases {
		assert.Equal(t, want, DeveloperInitials(name), name)
	}
}

func TestSequenceRepo_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("Dubai", 2025).
		WillReturnError(errors.New("relation does not exist"))

	_, err = NewSequenceRepo(db).CountForYearCity(context.Background(), 2025, "Dubai")
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
