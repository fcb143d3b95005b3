// Package code derives the human-readable project identifier shown on
// listings, shaped {CITYCODE}-{INITIALS}{YYYY}{NNN}.
package code

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// SequenceSource reports how many projects already exist for a (year, city)
// pair. The next sequence number is that count plus one.
type SequenceSource interface {
	CountForYearCity(ctx context.Context, year int, city string) (int, error)
}

// Generator builds project codes. If the sequence lookup fails it degrades
// to a timestamp-derived suffix instead of failing the whole submission;
// the small collision risk is accepted for availability.
type Generator struct {
	seq    SequenceSource
	logger *zap.Logger
	now    func() time.Time
}

func NewGenerator(seq SequenceSource, logger *zap.Logger) *Generator {
	return &Generator{seq: seq, logger: logger, now: time.Now}
}

// Generate produces a code like DUB-ED2025006. City code and developer
// initials are derived deterministically; only the sequence touches the
// database.
func (g *Generator) Generate(ctx context.Context, city, developerName string, year int) string {
	seq := g.nextSequence(ctx, year, city)
	return fmt.Sprintf("%s-%s%d%s", CityCode(city), DeveloperInitials(developerName), year, seq)
}

func (g *Generator) nextSequence(ctx context.Context, year int, city string) string {
	count, err := g.seq.CountForYearCity(ctx, year, city)
	if err != nil {
		// Degraded mode: keep the flow alive with a timestamp suffix.
		g.logger.Warn("project code sequence lookup failed, using timestamp suffix",
			zap.String("city", city),
			zap.Int("year", year),
			zap.Error(err))
		return fmt.Sprintf("%03d", g.now().Unix()%1000)
	}
	return fmt.Sprintf("%03d", count+1)
}

// CityCode uppercases the first three letters of the city, skipping
// anything that is not a letter.
func CityCode(city string) string {
	var b strings.Builder
	for _, r := range city {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= 3 {
			break
		}
	}
	return b.String()
}

// DeveloperInitials takes the first letter of up to three words of the
// developer name, uppercased.
func DeveloperInitials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
			}
			break
		}
		if b.Len() >= 3 {
			break
		}
	}
	return b.String()
}
