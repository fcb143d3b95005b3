package draft

import (
	"github.com/google/uuid"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

// Unit-plan attachment limits per configuration.
const (
	unitPlanMaxCount = 5
	unitPlanMaxSize  = 10 << 20 // 10 MiB
)

// ConfigRow pairs one Configuration with its unit-plan attachment group.
// The group travels with the row, and all deletion bookkeeping inside it is
// keyed by the row's surrogate Key, so structural mutations of the list
// (add/remove/reorder) can never misattribute a deletion to whichever row
// later occupies the same position.
type ConfigRow struct {
	Config    domain.Configuration
	UnitPlans *Group
}

// Configurations is the ordered collection of unit-type rows.
type Configurations struct {
	rows []*ConfigRow
}

// ConfigurationPatch carries a partial update; nil fields are left alone.
type ConfigurationPatch struct {
	Type           *string
	IsRange        *bool
	AvailableUnits *int
	AreaMin        *float64
	AreaMax        *float64
	AreaUnit       *string
	PriceMin       *float64
	PriceMax       *float64
	Currency       *string
}

// Add appends an empty configuration with a fresh surrogate key and an
// empty unit-plan group, and returns the new row.
func (c *Configurations) Add() *ConfigRow {
	row := &ConfigRow{
		Config: domain.Configuration{
			Key: uuid.New().String(),
		},
		UnitPlans: NewGroup(unitPlanMaxCount, unitPlanMaxSize),
	}
	c.rows = append(c.rows, row)
	return row
}

// AddFromSeed appends a configuration hydrated from persisted data, with its
// unit-plan group rebuilt from the refs matching the row's file-id list.
func (c *Configurations) AddFromSeed(cfg domain.Configuration, refs []domain.FileRef) *ConfigRow {
	if cfg.Key == "" {
		cfg.Key = uuid.New().String()
	}
	row := &ConfigRow{
		Config:    cfg,
		UnitPlans: NewGroupFromRefs(unitPlanMaxCount, unitPlanMaxSize, refs),
	}
	c.rows = append(c.rows, row)
	return row
}

// Remove deletes the row at index; following rows shift down. Bookkeeping
// inside the surviving rows is untouched because it is keyed by surrogate
// identity, not position.
func (c *Configurations) Remove(index int) error {
	if index < 0 || index >= len(c.rows) {
		return domain.ErrIndexOutOfRange
	}
	c.rows = append(c.rows[:index], c.rows[index+1:]...)
	return nil
}

// Update merges a partial edit into the row at index. Whenever the range
// flag ends up false, the upper area and price bounds are re-collapsed onto
// the lower bounds, on every edit, not just when the flag flips.
func (c *Configurations) Update(index int, patch ConfigurationPatch) error {
	if index < 0 || index >= len(c.rows) {
		return domain.ErrIndexOutOfRange
	}
	cfg := &c.rows[index].Config

	if patch.Type != nil {
		cfg.Type = *patch.Type
	}
	if patch.IsRange != nil {
		cfg.IsRange = *patch.IsRange
	}
	if patch.AvailableUnits != nil {
		cfg.AvailableUnits = *patch.AvailableUnits
	}
	if patch.AreaMin != nil {
		cfg.AreaMin = *patch.AreaMin
	}
	if patch.AreaMax != nil {
		cfg.AreaMax = *patch.AreaMax
	}
	if patch.AreaUnit != nil {
		cfg.AreaUnit = *patch.AreaUnit
	}
	if patch.PriceMin != nil {
		cfg.PriceMin = *patch.PriceMin
	}
	if patch.PriceMax != nil {
		cfg.PriceMax = *patch.PriceMax
	}
	if patch.Currency != nil {
		cfg.Currency = *patch.Currency
	}

	if !cfg.IsRange {
		cfg.AreaMax = cfg.AreaMin
		cfg.PriceMax = cfg.PriceMin
	}
	return nil
}

// Row returns the row at index.
func (c *Configurations) Row(index int) (*ConfigRow, error) {
	if index < 0 || index >= len(c.rows) {
		return nil, domain.ErrIndexOutOfRange
	}
	return c.rows[index], nil
}

// Rows returns the rows in display order.
func (c *Configurations) Rows() []*ConfigRow {
	return c.rows
}

// Len reports the number of rows.
func (c *Configurations) Len() int {
	return len(c.rows)
}

// Clear drops all rows.
func (c *Configurations) Clear() {
	c.rows = nil
}
