package submit

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

// UnitPlanPart is one new per-configuration file with its manifest entry.
type UnitPlanPart struct {
	ManifestEntry
	File *domain.PendingFile
}

// Request is the parsed submission handed to the persistence orchestrator.
type Request struct {
	Meta         Metadata
	Logo         *domain.PendingFile
	Brochure     *domain.PendingFile
	Gallery      []*domain.PendingFile
	FloorPlans   []*domain.PendingFile
	TaxSheets    []*domain.PendingFile
	PaymentPlans []*domain.PendingFile
	UnitPlans    []UnitPlanPart
}

// ParseForm reads a multipart submission back into a Request. The unit-plan
// manifest must account for exactly the binary parts present; a mismatch
// means the payload was corrupted in transit and the whole request is
// rejected.
func ParseForm(form *multipart.Form) (*Request, error) {
	values := form.Value[FieldData]
	if len(values) == 0 {
		return nil, fmt.Errorf("missing %s field", FieldData)
	}

	var req Request
	if err := json.Unmarshal([]byte(values[0]), &req.Meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FieldData, err)
	}

	var err error
	if req.Logo, err = readOptional(form, PartLogo); err != nil {
		return nil, err
	}
	if req.Brochure, err = readOptional(form, PartBrochure); err != nil {
		return nil, err
	}
	if req.Gallery, err = readIndexed(form, PrefixGallery); err != nil {
		return nil, err
	}
	if req.FloorPlans, err = readIndexed(form, PrefixFloorPlan); err != nil {
		return nil, err
	}
	if req.TaxSheets, err = readIndexed(form, PrefixTaxSheet); err != nil {
		return nil, err
	}
	if req.PaymentPlans, err = readIndexed(form, PrefixPaymentPlan); err != nil {
		return nil, err
	}

	if req.UnitPlans, err = readUnitPlans(form); err != nil {
		return nil, err
	}
	return &req, nil
}

func readUnitPlans(form *multipart.Form) ([]UnitPlanPart, error) {
	var manifest []ManifestEntry
	if raw := form.Value[FieldUnitPlanMeta]; len(raw) > 0 {
		if err := json.Unmarshal([]byte(raw[0]), &manifest); err != nil {
			return nil, fmt.Errorf("decode %s: %w", FieldUnitPlanMeta, err)
		}
	}

	if raw := form.Value[FieldUnitPlanCount]; len(raw) > 0 {
		count, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", FieldUnitPlanCount, err)
		}
		if count != len(manifest) {
			return nil, fmt.Errorf("unit plan manifest has %d entries, count field says %d", len(manifest), count)
		}
	}

	parts := make([]UnitPlanPart, 0, len(manifest))
	for _, entry := range manifest {
		name := fmt.Sprintf("%s_%d_%d", PrefixUnitPlan, entry.ConfigIndex, entry.FileIndex)
		file, err := readOptional(form, name)
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, fmt.Errorf("manifest references missing part %s", name)
		}
		parts = append(parts, UnitPlanPart{ManifestEntry: entry, File: file})
	}
	return parts, nil
}

func readOptional(form *multipart.Form, name string) (*domain.PendingFile, error) {
	headers := form.File[name]
	if len(headers) == 0 {
		return nil, nil
	}
	return readHeader(headers[0])
}

func readIndexed(form *multipart.Form, prefix string) ([]*domain.PendingFile, error) {
	count := 0
	if raw := form.Value[prefix+"_count"]; len(raw) > 0 {
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("decode %s_count: %w", prefix, err)
		}
		count = n
	}

	files := make([]*domain.PendingFile, 0, count)
	for i := 0; i < count; i++ {
		f, err := readOptional(form, fmt.Sprintf("%s_%d", prefix, i))
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, fmt.Errorf("missing part %s_%d", prefix, i)
		}
		files = append(files, f)
	}
	return files, nil
}

func readHeader(fh *multipart.FileHeader) (*domain.PendingFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", fh.Filename, err)
	}

	return &domain.PendingFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
