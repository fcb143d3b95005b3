// Package submit flattens a draft into the multipart submission payload and
// parses that payload back on the receiving side.
package submit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
	"github.com/estatedesk/estate-backend/internal/listings/draft"
)

// Form part names and prefixes of the wire contract.
const (
	FieldData          = "data"
	PartLogo           = "project_logo"
	PartBrochure       = "brochure"
	PrefixGallery      = "gallery"
	PrefixFloorPlan    = "floorplan"
	PrefixTaxSheet     = "taxsheet"
	PrefixPaymentPlan  = "paymentplan"
	PrefixUnitPlan     = "config_unitplan"
	FieldUnitPlanMeta  = "config_unitplan_meta"
	FieldUnitPlanCount = "config_unitplan_count"
)

// Metadata is the textual half of a submission: every scalar and array
// field of the draft, the configuration array with kept and deleted
// unit-plan ids, and the top-level deleted id lists.
type Metadata struct {
	domain.Draft
	DraftID               string                 `json:"draft_id"`
	Configurations        []domain.Configuration `json:"configurations"`
	DeletedGalleryIDs     []int64                `json:"deleted_gallery_ids"`
	DeletedFloorPlanIDs   []int64                `json:"deleted_floorplan_ids"`
	DeletedTaxSheetIDs    []int64                `json:"deleted_taxsheet_ids"`
	DeletedPaymentPlanIDs []int64                `json:"deleted_paymentplan_ids"`
}

// ManifestEntry ties one unit-plan binary part to the configuration row it
// belongs to. The manifest is mandatory: part names alone cannot be trusted
// to survive every transport.
type ManifestEntry struct {
	ConfigIndex int `json:"configIndex"`
	FileIndex   int `json:"fileIndex"`
}

// Serialize writes the whole draft into one multipart body. The returned
// content type carries the boundary. The manifest has exactly one entry per
// added unit-plan file across all configurations.
func Serialize(store *draft.Store) (contentType string, body []byte, err error) {
	meta := buildMetadata(store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	data, err := json.Marshal(meta)
	if err != nil {
		return "", nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := w.WriteField(FieldData, string(data)); err != nil {
		return "", nil, err
	}

	if err := writeSingle(w, PartLogo, store.Logo); err != nil {
		return "", nil, err
	}
	if err := writeSingle(w, PartBrochure, store.Brochure); err != nil {
		return "", nil, err
	}

	for _, g := range []struct {
		prefix string
		group  *draft.Group
	}{
		{PrefixGallery, store.Gallery},
		{PrefixFloorPlan, store.FloorPlans},
		{PrefixTaxSheet, store.TaxSheets},
		{PrefixPaymentPlan, store.PaymentPlans},
	} {
		if err := writeIndexed(w, g.prefix, g.group); err != nil {
			return "", nil, err
		}
	}

	var manifest []ManifestEntry
	for i, row := range store.Configs.Rows() {
		for j, f := range row.UnitPlans.Added() {
			name := fmt.Sprintf("%s_%d_%d", PrefixUnitPlan, i, j)
			if err := writeFile(w, name, f); err != nil {
				return "", nil, err
			}
			manifest = append(manifest, ManifestEntry{ConfigIndex: i, FileIndex: j})
		}
	}
	manifestData, err := json.Marshal(manifest)
	if err != nil {
		return "", nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := w.WriteField(FieldUnitPlanMeta, string(manifestData)); err != nil {
		return "", nil, err
	}
	if err := w.WriteField(FieldUnitPlanCount, strconv.Itoa(len(manifest))); err != nil {
		return "", nil, err
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

func buildMetadata(store *draft.Store) Metadata {
	meta := Metadata{
		Draft:                 store.Fields,
		DraftID:               store.ID,
		DeletedGalleryIDs:     store.Gallery.Removed(),
		DeletedFloorPlanIDs:   store.FloorPlans.Removed(),
		DeletedTaxSheetIDs:    store.TaxSheets.Removed(),
		DeletedPaymentPlanIDs: store.PaymentPlans.Removed(),
	}
	for _, row := range store.Configs.Rows() {
		cfg := row.Config
		cfg.UnitPlanIDs = keptIDs(row.UnitPlans)
		cfg.DeletedUnitPlanIDs = row.UnitPlans.Removed()
		meta.Configurations = append(meta.Configurations, cfg)
	}
	return meta
}

func keptIDs(g *draft.Group) []int64 {
	kept := g.Kept()
	ids := make([]int64, 0, len(kept))
	for _, ref := range kept {
		ids = append(ids, ref.ID)
	}
	return ids
}

func writeSingle(w *multipart.Writer, name string, g *draft.Group) error {
	added := g.Added()
	if len(added) == 0 {
		return nil
	}
	return writeFile(w, name, added[0])
}

func writeIndexed(w *multipart.Writer, prefix string, g *draft.Group) error {
	added := g.Added()
	for i, f := range added {
		if err := writeFile(w, fmt.Sprintf("%s_%d", prefix, i), f); err != nil {
			return err
		}
	}
	return w.WriteField(prefix+"_count", strconv.Itoa(len(added)))
}

func writeFile(w *multipart.Writer, name string, f *domain.PendingFile) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, f.Name))
	if f.ContentType != "" {
		h.Set("Content-Type", f.ContentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Data)
	return err
}
