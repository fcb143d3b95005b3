package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
	"github.com/estatedesk/estate-backend/internal/listings/submit"
)

// ProjectWriter is the slice of the repository the orchestrator needs.
type ProjectWriter interface {
	InsertProject(ctx context.Context, code string, d domain.Draft, cfgs []domain.Configuration) (int64, error)
	InsertFile(ctx context.Context, projectID int64, fileType, name, path string) (int64, error)
	UpdateConfigurations(ctx context.Context, projectID int64, cfgs []domain.Configuration) error
	InsertNearbyPlaces(ctx context.Context, projectID int64, places []domain.NearbyPlace) error
	InsertFAQs(ctx context.Context, projectID int64, faqs []domain.FAQ) error
	InsertSEO(ctx context.Context, projectID int64, d domain.Draft) error
	DeleteFiles(ctx context.Context, ids []int64) ([]string, error)
}

// BlobStore saves binary content and returns a storage path.
type BlobStore interface {
	Save(ctx context.Context, fileType, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// CodeSource produces a project code when the client did not supply one.
type CodeSource interface {
	Generate(ctx context.Context, city, developerName string, year int) string
}

// Result is what a successful submission hands back to the client.
type Result struct {
	ProjectID   int64  `json:"project_id"`
	ProjectCode string `json:"project_code"`
}

// SubmitService executes the dependent write sequence of a submission.
// Steps are strictly sequential: file rows need the project id, and the
// configuration patch needs the file ids. There is no rollback across
// steps; a failure after the project insert leaves earlier rows in place
// and the cleanup sweep reclaims the orphans.
type SubmitService struct {
	repo   ProjectWriter
	blobs  BlobStore
	codes  CodeSource
	logger *zap.Logger
	now    func() time.Time
}

func NewSubmitService(repo ProjectWriter, blobs BlobStore, codes CodeSource, logger *zap.Logger) *SubmitService {
	return &SubmitService{
		repo:   repo,
		blobs:  blobs,
		codes:  codes,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates the request, then runs the write sequence.
func (s *SubmitService) Submit(ctx context.Context, req *submit.Request) (*Result, error) {
	// Step 1: cross-field invariants, before any write.
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Step 2: resolve the project code.
	code := req.Meta.ProjectCode
	if code == "" {
		code = s.codes.Generate(ctx, req.Meta.City, req.Meta.DeveloperName, s.now().Year())
	}

	// Step 3: project row, configurations carrying only pre-existing ids.
	cfgs := make([]domain.Configuration, len(req.Meta.Configurations))
	copy(cfgs, req.Meta.Configurations)

	projectID, err := s.repo.InsertProject(ctx, code, req.Meta.Draft, cfgs)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	log := s.logger.With(zap.Int64("project_id", projectID), zap.String("code", code))

	// Step 4: top-level binary parts.
	if err := s.saveSingle(ctx, projectID, domain.FileTypeLogo, req.Logo); err != nil {
		return nil, err
	}
	if err := s.saveSingle(ctx, projectID, domain.FileTypeBrochure, req.Brochure); err != nil {
		return nil, err
	}
	for _, g := range []struct {
		fileType string
		files    []*domain.PendingFile
	}{
		{domain.FileTypeGallery, req.Gallery},
		{domain.FileTypeFloorPlan, req.FloorPlans},
		{domain.FileTypeTaxSheet, req.TaxSheets},
		{domain.FileTypePaymentPlan, req.PaymentPlans},
	} {
		for _, f := range g.files {
			if _, err := s.saveFile(ctx, projectID, g.fileType, f); err != nil {
				return nil, err
			}
		}
	}

	// Step 5: per-configuration parts, linking the generated ids back into
	// the configuration array at the manifest-specified index.
	linked := 0
	for _, part := range req.UnitPlans {
		id, err := s.saveFile(ctx, projectID, domain.FileTypeUnitPlan, part.File)
		if err != nil {
			return nil, err
		}
		cfgs[part.ConfigIndex].UnitPlanIDs = append(cfgs[part.ConfigIndex].UnitPlanIDs, id)
		linked++
	}

	// Step 6: patch the configuration column once, only if something
	// actually got linked.
	if linked > 0 {
		if err := s.repo.UpdateConfigurations(ctx, projectID, cfgs); err != nil {
			return nil, &domain.PersistenceError{Step: "patch configurations", Err: err}
		}
	}

	// Step 7: dependent one-to-many rows and the SEO row.
	if err := s.repo.InsertNearbyPlaces(ctx, projectID, req.Meta.NearbyPlaces); err != nil {
		return nil, &domain.PersistenceError{Step: "nearby places", Err: err}
	}
	if err := s.repo.InsertFAQs(ctx, projectID, req.Meta.FAQs); err != nil {
		return nil, &domain.PersistenceError{Step: "faqs", Err: err}
	}
	if err := s.repo.InsertSEO(ctx, projectID, req.Meta.Draft); err != nil {
		return nil, &domain.PersistenceError{Step: "seo", Err: err}
	}

	// Removed files last, best effort: the project is already consistent
	// without them.
	s.deleteRemoved(ctx, req, log)

	log.Info("project submitted")
	return &Result{ProjectID: projectID, ProjectCode: code}, nil
}

func validateRequest(req *submit.Request) error {
	fields := domain.FieldErrors{}
	if req.Meta.SEOCity != "" && req.Meta.SEOCity != req.Meta.City {
		fields["seo_city"] = "SEO city must match the project city"
	}
	if req.Meta.SEODeveloperName != "" && req.Meta.SEODeveloperName != req.Meta.DeveloperName {
		fields["seo_developer_name"] = "SEO developer name must match the project developer"
	}
	for _, part := range req.UnitPlans {
		if part.ConfigIndex < 0 || part.ConfigIndex >= len(req.Meta.Configurations) {
			fields["config_unitplan_meta"] = fmt.Sprintf("manifest references configuration %d which does not exist", part.ConfigIndex)
			break
		}
	}
	if len(fields) > 0 {
		return &domain.ConsistencyError{Fields: fields}
	}
	return nil
}

func (s *SubmitService) saveSingle(ctx context.Context, projectID int64, fileType string, f *domain.PendingFile) error {
	if f == nil {
		return nil
	}
	_, err := s.saveFile(ctx, projectID, fileType, f)
	return err
}

// saveFile stores the blob, then the file row, and returns the row id.
func (s *SubmitService) saveFile(ctx context.Context, projectID int64, fileType string, f *domain.PendingFile) (int64, error) {
	path, err := s.blobs.Save(ctx, fileType, f.Name, f.ContentType, f.Data)
	if err != nil {
		return 0, &domain.PersistenceError{Step: "store " + fileType, Err: err}
	}
	id, err := s.repo.InsertFile(ctx, projectID, fileType, f.Name, path)
	if err != nil {
		return 0, &domain.PersistenceError{Step: "insert " + fileType + " row", Err: err}
	}
	return id, nil
}

func (s *SubmitService) deleteRemoved(ctx context.Context, req *submit.Request, log *zap.Logger) {
	var ids []int64
	ids = append(ids, req.Meta.DeletedGalleryIDs...)
	ids = append(ids, req.Meta.DeletedFloorPlanIDs...)
	ids = append(ids, req.Meta.DeletedTaxSheetIDs...)
	ids = append(ids, req.Meta.DeletedPaymentPlanIDs...)
	for _, cfg := range req.Meta.Configurations {
		ids = append(ids, cfg.DeletedUnitPlanIDs...)
	}
	if len(ids) == 0 {
		return
	}

	paths, err := s.repo.DeleteFiles(ctx, ids)
	if err != nil {
		log.Warn("failed to delete removed file rows", zap.Error(err))
		return
	}
	for _, p := range paths {
		if err := s.blobs.Delete(ctx, p); err != nil {
			log.Warn("failed to delete blob", zap.String("path", p), zap.Error(err))
		}
	}
}
