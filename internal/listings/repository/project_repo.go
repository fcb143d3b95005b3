package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

// ProjectRepository persists projects and their dependent rows on pgx.
type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// InsertProject writes the project row with the configuration array as
// given. At this point each configuration carries only its pre-existing
// unit-plan ids; new files get linked after their rows exist.
func (r *ProjectRepository) InsertProject(ctx context.Context, code string, d domain.Draft, cfgs []domain.Configuration) (int64, error) {
	cfgJSON, err := json.Marshal(cfgs)
	if err != nil {
		return 0, fmt.Errorf("marshal configurations: %w", err)
	}

	const q = `
INSERT INTO projects (
	code, developer_id, developer_name, name, locality, city, country,
	usage, project_type, status, about, highlights, amenities,
	contact_email, contact_phone, website, configurations
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id;
`
	var id int64
	err = r.db.QueryRow(ctx, q,
		code, d.DeveloperID, d.DeveloperName, d.ProjectName, d.Locality, d.City, d.Country,
		d.Usage, d.ProjectType, d.Status, d.About, d.Highlights, d.Amenities,
		d.ContactEmail, d.ContactPhone, d.Website, cfgJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return id, nil
}

// InsertFile writes one file row and returns its generated id.
func (r *ProjectRepository) InsertFile(ctx context.Context, projectID int64, fileType, name, path string) (int64, error) {
	const q = `
INSERT INTO project_files (project_id, type, name, path)
VALUES ($1, $2, $3, $4)
RETURNING id;
`
	var id int64
	if err := r.db.QueryRow(ctx, q, projectID, fileType, name, path).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert file row: %w", err)
	}
	return id, nil
}

// UpdateConfigurations patches the project's configuration column with the
// now-complete array. Called once per submission, only when new unit-plan
// ids were appended.
func (r *ProjectRepository) UpdateConfigurations(ctx context.Context, projectID int64, cfgs []domain.Configuration) error {
	cfgJSON, err := json.Marshal(cfgs)
	if err != nil {
		return fmt.Errorf("marshal configurations: %w", err)
	}

	const q = `
UPDATE projects
SET configurations = $2, updated_at = now()
WHERE id = $1;
`
	if _, err := r.db.Exec(ctx, q, projectID, cfgJSON); err != nil {
		return fmt.Errorf("update configurations: %w", err)
	}
	return nil
}

// InsertNearbyPlaces writes the one-to-many nearby rows.
func (r *ProjectRepository) InsertNearbyPlaces(ctx context.Context, projectID int64, places []domain.NearbyPlace) error {
	const q = `
INSERT INTO project_nearby_places (project_id, name, category, distance_km)
VALUES ($1, $2, $3, $4);
`
	for _, p := range places {
		if _, err := r.db.Exec(ctx, q, projectID, p.Name, p.Category, p.DistanceKM); err != nil {
			return fmt.Errorf("insert nearby place: %w", err)
		}
	}
	return nil
}

// InsertFAQs writes the one-to-many FAQ rows.
func (r *ProjectRepository) InsertFAQs(ctx context.Context, projectID int64, faqs []domain.FAQ) error {
	const q = `
INSERT INTO project_faqs (project_id, question, answer)
VALUES ($1, $2, $3);
`
	for _, f := range faqs {
		if _, err := r.db.Exec(ctx, q, projectID, f.Question, f.Answer); err != nil {
			return fmt.Errorf("insert faq: %w", err)
		}
	}
	return nil
}

// InsertSEO writes the single SEO row for a project.
func (r *ProjectRepository) InsertSEO(ctx context.Context, projectID int64, d domain.Draft) error {
	const q = `
INSERT INTO project_seo (project_id, title, description, keywords, city, developer_name)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.db.Exec(ctx, q, projectID,
		d.SEOTitle, d.SEODescription, d.SEOKeywords, d.SEOCity, d.SEODeveloperName)
	if err != nil {
		return fmt.Errorf("insert seo row: %w", err)
	}
	return nil
}

// DeleteFiles removes file rows by id and returns their storage paths so
// the caller can reclaim the blobs.
func (r *ProjectRepository) DeleteFiles(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const q = `
DELETE FROM project_files
WHERE id = ANY($1)
RETURNING path;
`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("delete file rows: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// DeleteOrphanFiles removes file rows older than the grace window whose
// project row no longer exists, leftovers of submissions that failed
// partway. Returns the blob paths to reclaim.
func (r *ProjectRepository) DeleteOrphanFiles(ctx context.Context, grace time.Duration) ([]string, error) {
	const q = `
DELETE FROM project_files f
WHERE f.created_at < now() - $1::interval
  AND NOT EXISTS (SELECT 1 FROM projects p WHERE p.id = f.project_id)
RETURNING f.path;
`
	interval := fmt.Sprintf("%d seconds", int(grace.Seconds()))
	rows, err := r.db.Query(ctx, q, interval)
	if err != nil {
		return nil, fmt.Errorf("delete orphan files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
