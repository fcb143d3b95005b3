package draft

import (
	"fmt"
	"strings"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

// Step identifies one of the six ordered editor steps.
type Step int

const (
	StepBasic Step = iota + 1
	StepContact
	StepPricing
	StepContent
	StepLocation
	StepMediaSEO
)

const stepCount = 6

func (s Step) String() string {
	switch s {
	case StepBasic:
		return "basic"
	case StepContact:
		return "contact"
	case StepPricing:
		return "pricing"
	case StepContent:
		return "content"
	case StepLocation:
		return "location"
	case StepMediaSEO:
		return "media_seo"
	}
	return "unknown"
}

// Navigator is a linear six-state machine over the editor steps. Forward
// motion is gated on step-scoped validation; backward motion never is.
type Navigator struct {
	store   *Store
	current Step
}

func NewNavigator(store *Store) *Navigator {
	return &Navigator{store: store, current: StepBasic}
}

// Current returns the active step.
func (n *Navigator) Current() Step {
	return n.current
}

// Next validates the current step against the store. On failure it records
// the field errors and stays put. On success it advances one step, or, when
// already on the final step, reports the draft ready for submission without
// advancing. Returns whether validation passed.
func (n *Navigator) Next() bool {
	errs := validateStep(n.current, n.store)
	if len(errs) > 0 {
		for field, msg := range errs {
			n.store.Errors[field] = msg
		}
		return false
	}
	if n.current < stepCount {
		n.current++
	}
	return true
}

// Prev moves one step back. It never validates and never fails; on the
// first step it stays put.
func (n *Navigator) Prev() {
	if n.current > StepBasic {
		n.current--
	}
}

// GoTo jumps straight to a step, bypassing validation. Used when resuming
// an edit deep-linked into a later step.
func (n *Navigator) GoTo(step Step) error {
	if step < StepBasic || step > stepCount {
		return fmt.Errorf("step %d out of range", step)
	}
	n.current = step
	return nil
}

type stepRule func(*Store) domain.FieldErrors

var stepRules = map[Step][]stepRule{
	StepBasic:    {requireBasics},
	StepContact:  {requireContact},
	StepPricing:  {validConfigurations},
	StepContent:  {requireAbout},
	StepLocation: {requireLocation},
	StepMediaSEO: {seoMatchesProject},
}

func validateStep(step Step, s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	for _, rule := range stepRules[step] {
		for field, msg := range rule(s) {
			errs[field] = msg
		}
	}
	return errs
}

func requireBasics(s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(s.Fields.DeveloperName) == "" {
		errs["developer_name"] = "developer is required"
	}
	if strings.TrimSpace(s.Fields.ProjectName) == "" {
		errs["project_name"] = "project name is required"
	}
	if strings.TrimSpace(s.Fields.City) == "" {
		errs["city"] = "city is required"
	}
	switch s.Fields.Usage {
	case domain.UsageResidential, domain.UsageCommercial, domain.UsageMixed:
	default:
		errs["usage"] = "usage must be residential, commercial or mixed"
	}
	switch s.Fields.Status {
	case domain.StatusUpcoming, domain.StatusUnderConstruction, domain.StatusReady:
	default:
		errs["status"] = "status must be upcoming, under_construction or ready"
	}
	return errs
}

func requireContact(s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if s.Fields.ContactEmail == "" && s.Fields.ContactPhone == "" {
		errs["contact_email"] = "an email or phone contact is required"
	}
	if s.Fields.ContactEmail != "" && !strings.Contains(s.Fields.ContactEmail, "@") {
		errs["contact_email"] = "invalid email address"
	}
	return errs
}

func validConfigurations(s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	for i, row := range s.Configs.Rows() {
		cfg := row.Config
		if strings.TrimSpace(cfg.Type) == "" {
			errs[fmt.Sprintf("configurations.%d.type", i)] = "unit type is required"
		}
		if cfg.AreaMin <= 0 {
			errs[fmt.Sprintf("configurations.%d.area_min", i)] = "area must be positive"
		}
		if cfg.PriceMin <= 0 {
			errs[fmt.Sprintf("configurations.%d.price_min", i)] = "price must be positive"
		}
		if cfg.IsRange && cfg.AreaMax < cfg.AreaMin {
			errs[fmt.Sprintf("configurations.%d.area_max", i)] = "area upper bound below lower bound"
		}
		if cfg.IsRange && cfg.PriceMax < cfg.PriceMin {
			errs[fmt.Sprintf("configurations.%d.price_max", i)] = "price upper bound below lower bound"
		}
	}
	return errs
}

func requireAbout(s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(s.Fields.About) == "" {
		errs["about"] = "about section is required"
	}
	return errs
}

func requireLocation(s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(s.Fields.Locality) == "" {
		errs["locality"] = "locality is required"
	}
	if strings.TrimSpace(s.Fields.Country) == "" {
		errs["country"] = "country is required"
	}
	return errs
}

// seoMatchesProject enforces the cross-field rule: SEO city and developer
// name, when provided, must equal the project's own.
func seoMatchesProject(s *Store) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if s.Fields.SEOCity != "" && s.Fields.SEOCity != s.Fields.City {
		errs["seo_city"] = "SEO city must match the project city"
	}
	if s.Fields.SEODeveloperName != "" && s.Fields.SEODeveloperName != s.Fields.DeveloperName {
		errs["seo_developer_name"] = "SEO developer name must match the project developer"
	}
	return errs
}
