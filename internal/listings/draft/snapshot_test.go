package draft

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

func setupSnapshotStore(t *testing.T) *SnapshotStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSnapshotStore(client)
}

func TestSnapshot_RoundTripDropsBinaryState(t *testing.T) {
	ctx := context.Background()
	snaps := setupSnapshotStore(t)

	s := NewStore(ModeCreate, nil)
	require.NoError(t, s.UpdateFields(map[string]any{
		"developer_name": "Example Developer",
		"project_name":   "Marina Heights",
		"city":           "Dubai",
		"about":          "Waterfront living.",
		"highlights":     []string{"sea view"},
	}))

	row := s.Configs.Add()
	require.NoError(t, s.Configs.Update(0, ConfigurationPatch{
		Type: str("2BHK"), AreaMin: f64(800), PriceMin: f64(1200000), IsRange: b(false),
	}))
	row.UnitPlans.AddFiles([]*domain.PendingFile{pending("plan.pdf", "application/pdf", 10)})
	s.Gallery.AddFiles([]*domain.PendingFile{pending("g.jpg", "image/jpeg", 10)})
	s.Gallery.WaitPreviews()

	require.NoError(t, snaps.Save(ctx, s))

	restored, err := snaps.Load(ctx, s.ID)
	require.NoError(t, err)

	// Scalar and array fields come back exactly.
	assert.Equal(t, s.Fields, restored.Fields)

	// Configuration non-file fields come back exactly; file slots are empty.
	require.Equal(t, 1, restored.Configs.Len())
	got, err := restored.Configs.Row(0)
	require.NoError(t, err)
	assert.Equal(t, row.Config.Key, got.Config.Key)
	assert.Equal(t, "2BHK", got.Config.Type)
	assert.Equal(t, 800.0, got.Config.AreaMin)
	assert.Empty(t, got.Config.UnitPlanIDs)
	assert.Empty(t, got.UnitPlans.Added())
	assert.Empty(t, got.UnitPlans.Kept())

	assert.Empty(t, restored.Gallery.Added())
	assert.Empty(t, restored.Logo.Added())
}

func TestSnapshot_EditModeIsNeverPersisted(t *testing.T) {
	ctx := context.Background()
	snaps := setupSnapshotStore(t)

	s := NewStore(ModeEdit, &Seed{Draft: domain.Draft{ProjectName: "Existing"}})
	require.NoError(t, snaps.Save(ctx, s))

	_, err := snaps.Load(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSnapshot_Discard(t *testing.T) {
	ctx := context.Background()
	snaps := setupSnapshotStore(t)

	s := NewStore(ModeCreate, nil)
	require.NoError(t, s.UpdateField("project_name", "Marina Heights"))
	require.NoError(t, snaps.Save(ctx, s))

	require.NoError(t, snaps.Discard(ctx, s.ID))

	_, err := snaps.Load(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSnapshot_ScopedPerDraft(t *testing.T) {
	ctx := context.Background()
	snaps := setupSnapshotStore(t)

	first := NewStore(ModeCreate, nil)
	require.NoError(t, first.UpdateField("project_name", "First"))
	second := NewStore(ModeCreate, nil)
	require.NoError(t, second.UpdateField("project_name", "Second"))

	require.NoError(t, snaps.Save(ctx, first))
	require.NoError(t, snaps.Save(ctx, second))

	got, err := snaps.Load(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", got.Fields.ProjectName)

	got, err = snaps.Load(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Fields.ProjectName)
}
