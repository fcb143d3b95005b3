package domain

import "time"

// Usage constants
const (
	UsageResidential = "residential"
	UsageCommercial  = "commercial"
	UsageMixed       = "mixed"
)

// Status constants
const (
	StatusUpcoming          = "upcoming"
	StatusUnderConstruction = "under_construction"
	StatusReady             = "ready"
)

// FileRef is a server-known file descriptor: the row id, the display name
// shown to the operator, and the storage path of the blob.
type FileRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Preview kinds for files still pending upload.
const (
	PreviewPending  = "pending"  // image preview not generated yet
	PreviewDocument = "document" // non-image sentinel, no bytes read
)

// PendingFile is a newly attached binary that has no id yet. Preview holds
// a data URL for images once generated, or the document sentinel.
type PendingFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
	Preview     string `json:"preview,omitempty"`
}

// FAQ is one question/answer pair attached to a project.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NearbyPlace is one point of interest around the development.
type NearbyPlace struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	DistanceKM float64 `json:"distance_km"`
}

// Configuration is one unit-type row within a project. Key is a surrogate
// identity assigned at creation time; attachment bookkeeping hangs off it,
// never off the row's position in the list.
type Configuration struct {
	Key                string  `json:"key"`
	Type               string  `json:"type"`
	IsRange            bool    `json:"is_range"`
	AvailableUnits     int     `json:"available_units"`
	AreaMin            float64 `json:"area_min"`
	AreaMax            float64 `json:"area_max"`
	AreaUnit           string  `json:"area_unit"`
	PriceMin           float64 `json:"price_min"`
	PriceMax           float64 `json:"price_max"`
	Currency           string  `json:"currency"`
	UnitPlanIDs        []int64 `json:"unit_plan_ids"`
	DeletedUnitPlanIDs []int64 `json:"deleted_unit_plan_ids"`
}

// Draft holds every scalar and array field of a project being authored.
// Attachment state lives in the draft package alongside it.
type Draft struct {
	DeveloperID   int64    `json:"developer_id"`
	DeveloperName string   `json:"developer_name"`
	ProjectName   string   `json:"project_name"`
	Locality      string   `json:"locality"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Usage         string   `json:"usage"`
	ProjectType   string   `json:"project_type"`
	Status        string   `json:"status"`
	ProjectCode   string   `json:"project_code"`
	About         string   `json:"about"`
	Highlights    []string `json:"highlights"`
	Amenities     []string `json:"amenities"`
	ContactEmail  string   `json:"contact_email"`
	ContactPhone  string   `json:"contact_phone"`
	Website       string   `json:"website"`

	FAQs         []FAQ         `json:"faqs"`
	NearbyPlaces []NearbyPlace `json:"nearby_places"`

	SEOTitle         string   `json:"seo_title"`
	SEODescription   string   `json:"seo_description"`
	SEOKeywords      []string `json:"seo_keywords"`
	SEOCity          string   `json:"seo_city"`
	SEODeveloperName string   `json:"seo_developer_name"`
}

// ProjectRecord is the persisted shape of a submitted project.
type ProjectRecord struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Draft          Draft           `json:"draft"`
	Configurations []Configuration `json:"configurations"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// File type tags on persisted file rows.
const (
	FileTypeLogo        = "logo"
	FileTypeGallery     = "gallery"
	FileTypeFloorPlan   = "floorplan"
	FileTypeBrochure    = "brochure"
	FileTypeTaxSheet    = "taxsheet"
	FileTypePaymentPlan = "paymentplan"
	FileTypeUnitPlan    = "unitplan"
)

// FileRecord is one persisted file row. Unit-plan rows are additionally
// referenced from a configuration's unit_plan_ids list.
type FileRecord struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
