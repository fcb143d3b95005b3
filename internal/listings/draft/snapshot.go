package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

const (
	snapshotKeyPrefix = "listing:draft:" // listing:draft:{draft_id}
	snapshotTTL       = 72 * time.Hour
)

// SnapshotStore mirrors a sanitized copy of a create-mode draft across
// reloads. The key is scoped to the draft id, so two drafts authored back
// to back can never clobber each other. Binary-bearing slots are written
// back empty on every save and come back empty on restore.
type SnapshotStore struct {
	client *redis.Client
}

func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

type snapshotPayload struct {
	Fields         domain.Draft           `json:"fields"`
	Configurations []domain.Configuration `json:"configurations"`
	SavedAt        time.Time              `json:"saved_at"`
}

// Save persists the draft's scalar and array state. Edit-mode stores are
// never snapshotted. File state is stripped: each configuration goes out
// with empty unit-plan id lists, and the attachment groups are not written
// at all.
func (s *SnapshotStore) Save(ctx context.Context, store *Store) error {
	if store.Mode != ModeCreate {
		return nil
	}

	payload := snapshotPayload{
		Fields:  store.Fields,
		SavedAt: time.Now().UTC(),
	}
	for _, row := range store.Configs.Rows() {
		cfg := row.Config
		cfg.UnitPlanIDs = nil
		cfg.DeletedUnitPlanIDs = nil
		payload.Configurations = append(payload.Configurations, cfg)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(store.ID), data, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load restores a snapshot into a fresh create-mode store under the same
// draft id. Every file slot, top-level and per-configuration, is empty.
func (s *SnapshotStore) Load(ctx context.Context, draftID string) (*Store, error) {
	data, err := s.client.Get(ctx, s.key(draftID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var payload snapshotPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	store := NewStore(ModeCreate, nil)
	store.ID = draftID
	store.Fields = payload.Fields
	for _, cfg := range payload.Configurations {
		store.Configs.AddFromSeed(cfg, nil)
	}
	return store, nil
}

// Discard deletes the persisted snapshot for a draft.
func (s *SnapshotStore) Discard(ctx context.Context, draftID string) error {
	if err := s.client.Del(ctx, s.key(draftID)).Err(); err != nil {
		return fmt.Errorf("discard snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(draftID string) string {
	return fmt.Sprintf("%s%s", snapshotKeyPrefix, draftID)
}
