package draft

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

// Mode selects how a store is initialized.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Top-level attachment limits.
const (
	logoMaxCount    = 1
	logoMaxSize     = 2 << 20
	galleryMaxCount = 15
	galleryMaxSize  = 5 << 20
	floorMaxCount   = 10
	floorMaxSize    = 10 << 20
	brochureMax     = 1
	brochureMaxSize = 20 << 20
	docsMaxCount    = 5
	docsMaxSize     = 10 << 20
)

// SeedFile is one entry of the flat file list a seed carries. Type tags the
// attachment category; unit-plan entries are matched to configurations by id.
type SeedFile struct {
	domain.FileRef
	Type string `json:"type"`
}

// Seed is the persisted state an edit-mode store hydrates from.
type Seed struct {
	Draft          domain.Draft           `json:"draft"`
	Configurations []domain.Configuration `json:"configurations"`
	Files          []SeedFile             `json:"files"`
}

// Store is the aggregate for one project being authored: scalar fields, the
// configuration collection, and the six top-level attachment groups.
type Store struct {
	ID     string
	Mode   Mode
	Fields domain.Draft
	Errors domain.FieldErrors

	Configs Configurations

	Logo         *Group
	Gallery      *Group
	FloorPlans   *Group
	Brochure     *Group
	TaxSheets    *Group
	PaymentPlans *Group
}

// NewStore creates an empty aggregate in create mode, or hydrates one from
// the seed in edit mode. Hydration rebuilds each configuration's unit-plan
// group from the seed's flat file list filtered by the configuration's
// file-id list.
func NewStore(mode Mode, seed *Seed) *Store {
	s := &Store{
		ID:     uuid.New().String(),
		Mode:   mode,
		Errors: domain.FieldErrors{},
	}
	s.initGroups(nil)

	if mode == ModeEdit && seed != nil {
		s.Fields = seed.Draft
		s.initGroups(seed.Files)
		for _, cfg := range seed.Configurations {
			s.Configs.AddFromSeed(cfg, refsForIDs(seed.Files, cfg.UnitPlanIDs))
		}
	}
	return s
}

func (s *Store) initGroups(files []SeedFile) {
	s.Logo = NewGroupFromRefs(logoMaxCount, logoMaxSize, refsForType(files, domain.FileTypeLogo))
	s.Gallery = NewGroupFromRefs(galleryMaxCount, galleryMaxSize, refsForType(files, domain.FileTypeGallery))
	s.FloorPlans = NewGroupFromRefs(floorMaxCount, floorMaxSize, refsForType(files, domain.FileTypeFloorPlan))
	s.Brochure = NewGroupFromRefs(brochureMax, brochureMaxSize, refsForType(files, domain.FileTypeBrochure))
	s.TaxSheets = NewGroupFromRefs(docsMaxCount, docsMaxSize, refsForType(files, domain.FileTypeTaxSheet))
	s.PaymentPlans = NewGroupFromRefs(docsMaxCount, docsMaxSize, refsForType(files, domain.FileTypePaymentPlan))
}

// UpdateField merges one field and clears any validation error recorded
// against it. Nothing else happens: no validation, no persistence.
func (s *Store) UpdateField(key string, value any) error {
	apply, ok := fieldAppliers[key]
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	if err := apply(&s.Fields, value); err != nil {
		return err
	}
	delete(s.Errors, key)
	return nil
}

// UpdateFields applies a shallow merge of several fields at once.
func (s *Store) UpdateFields(partial map[string]any) error {
	for key, value := range partial {
		if err := s.UpdateField(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Reset restores the empty aggregate. The snapshot adapter, when wired,
// discards the persisted copy on reset as well.
func (s *Store) Reset() {
	s.Fields = domain.Draft{}
	s.Errors = domain.FieldErrors{}
	s.Configs.Clear()
	s.initGroups(nil)
}

func refsForType(files []SeedFile, fileType string) []domain.FileRef {
	var out []domain.FileRef
	for _, f := range files {
		if f.Type == fileType {
			out = append(out, f.FileRef)
		}
	}
	return out
}

func refsForIDs(files []SeedFile, ids []int64) []domain.FileRef {
	var out []domain.FileRef
	for _, f := range files {
		if f.Type != domain.FileTypeUnitPlan {
			continue
		}
		for _, id := range ids {
			if f.ID == id {
				out = append(out, f.FileRef)
				break
			}
		}
	}
	return out
}

type fieldApplier func(*domain.Draft, any) error

var fieldAppliers = map[string]fieldApplier{
	"developer_id":       func(d *domain.Draft, v any) error { return setInt64(&d.DeveloperID, v) },
	"developer_name":     func(d *domain.Draft, v any) error { return setString(&d.DeveloperName, v) },
	"project_name":       func(d *domain.Draft, v any) error { return setString(&d.ProjectName, v) },
	"locality":           func(d *domain.Draft, v any) error { return setString(&d.Locality, v) },
	"city":               func(d *domain.Draft, v any) error { return setString(&d.City, v) },
	"country":            func(d *domain.Draft, v any) error { return setString(&d.Country, v) },
	"usage":              func(d *domain.Draft, v any) error { return setString(&d.Usage, v) },
	"project_type":       func(d *domain.Draft, v any) error { return setString(&d.ProjectType, v) },
	"status":             func(d *domain.Draft, v any) error { return setString(&d.Status, v) },
	"project_code":       func(d *domain.Draft, v any) error { return setString(&d.ProjectCode, v) },
	"about":              func(d *domain.Draft, v any) error { return setString(&d.About, v) },
	"highlights":         func(d *domain.Draft, v any) error { return setStrings(&d.Highlights, v) },
	"amenities":          func(d *domain.Draft, v any) error { return setStrings(&d.Amenities, v) },
	"contact_email":      func(d *domain.Draft, v any) error { return setString(&d.ContactEmail, v) },
	"contact_phone":      func(d *domain.Draft, v any) error { return setString(&d.ContactPhone, v) },
	"website":            func(d *domain.Draft, v any) error { return setString(&d.Website, v) },
	"seo_title":          func(d *domain.Draft, v any) error { return setString(&d.SEOTitle, v) },
	"seo_description":    func(d *domain.Draft, v any) error { return setString(&d.SEODescription, v) },
	"seo_keywords":       func(d *domain.Draft, v any) error { return setStrings(&d.SEOKeywords, v) },
	"seo_city":           func(d *domain.Draft, v any) error { return setString(&d.SEOCity, v) },
	"seo_developer_name": func(d *domain.Draft, v any) error { return setString(&d.SEODeveloperName, v) },
	"faqs": func(d *domain.Draft, v any) error {
		faqs, ok := v.([]domain.FAQ)
		if !ok {
			return fmt.Errorf("faqs: expected []FAQ, got %T", v)
		}
		d.FAQs = faqs
		return nil
	},
	"nearby_places": func(d *domain.Draft, v any) error {
		places, ok := v.([]domain.NearbyPlace)
		if !ok {
			return fmt.Errorf("nearby_places: expected []NearbyPlace, got %T", v)
		}
		d.NearbyPlaces = places
		return nil
	},
}

func setString(dst *string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	*dst = s
	return nil
}

func setStrings(dst *[]string, v any) error {
	s, ok := v.([]string)
	if !ok {
		return fmt.Errorf("expected []string, got %T", v)
	}
	*dst = s
	return nil
}

func setInt64(dst *int64, v any) error {
	switch n := v.(type) {
	case int64:
		*dst = n
	case int:
		*dst = int64(n)
	case float64:
		*dst = int64(n)
	default:
		return fmt.Errorf("expected integer, got %T", v)
	}
	return nil
}
