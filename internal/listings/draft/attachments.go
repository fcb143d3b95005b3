package draft

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

// Group tracks the three disjoint file states of one attachment category:
// kept (server-known), added (pending upload, no id), removed (ids marked
// for deletion at submit time). An id is never in kept and removed at the
// same time, and added entries never carry an id.
type Group struct {
	maxCount       int
	maxSizePerFile int64

	mu      sync.Mutex
	kept    []domain.FileRef
	added   []*domain.PendingFile
	removed []int64

	previews sync.WaitGroup
}

// NewGroup creates an empty group with the given limits.
func NewGroup(maxCount int, maxSizePerFile int64) *Group {
	return &Group{maxCount: maxCount, maxSizePerFile: maxSizePerFile}
}

// NewGroupFromRefs creates a group pre-populated with server-known files,
// used when hydrating an edit-mode draft.
func NewGroupFromRefs(maxCount int, maxSizePerFile int64, refs []domain.FileRef) *Group {
	g := NewGroup(maxCount, maxSizePerFile)
	g.kept = append(g.kept, refs...)
	return g
}

// AddFiles appends incoming files to the pending set. Files over the size
// limit are rejected individually and reported back; the rest of the batch
// still goes through. Files beyond the group's remaining capacity are
// dropped silently.
func (g *Group) AddFiles(files []*domain.PendingFile) []*domain.FileConstraintError {
	g.mu.Lock()
	defer g.mu.Unlock()

	var rejected []*domain.FileConstraintError
	remaining := g.remainingLocked()

	for _, f := range files {
		if f.Size > g.maxSizePerFile {
			rejected = append(rejected, &domain.FileConstraintError{
				Name:   f.Name,
				Reason: fmt.Sprintf("exceeds max size of %d bytes", g.maxSizePerFile),
			})
			continue
		}
		if remaining <= 0 {
			continue
		}
		remaining--

		if isImage(f.ContentType) {
			f.Preview = domain.PreviewPending
			g.previews.Add(1)
			go g.generatePreview(f)
		} else {
			f.Preview = domain.PreviewDocument
		}
		g.added = append(g.added, f)
	}

	return rejected
}

// RemoveAdded drops one pending file by its position in the added list.
func (g *Group) RemoveAdded(index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index < 0 || index >= len(g.added) {
		return domain.ErrIndexOutOfRange
	}
	g.added = append(g.added[:index], g.added[index+1:]...)
	return nil
}

// RemoveKept moves a server-known file into the removed set. The id leaves
// kept immediately so the UI stops showing it; the actual delete happens at
// submit time. Unknown ids are ignored.
func (g *Group) RemoveKept(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, ref := range g.kept {
		if ref.ID == id {
			g.kept = append(g.kept[:i], g.kept[i+1:]...)
			g.removed = append(g.removed, id)
			return
		}
	}
}

// Kept returns a copy of the server-known files still kept.
func (g *Group) Kept() []domain.FileRef {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.FileRef, len(g.kept))
	copy(out, g.kept)
	return out
}

// Added returns the pending files in order.
func (g *Group) Added() []*domain.PendingFile {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*domain.PendingFile, len(g.added))
	copy(out, g.added)
	return out
}

// Removed returns the ids marked for deletion.
func (g *Group) Removed() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]int64, len(g.removed))
	copy(out, g.removed)
	return out
}

// Clear empties all three sets.
func (g *Group) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.kept = nil
	g.added = nil
	g.removed = nil
}

// WaitPreviews blocks until all in-flight image previews are generated.
func (g *Group) WaitPreviews() {
	g.previews.Wait()
}

// remainingLocked computes free capacity. Removed ids have already left
// kept, so kept+added is the live occupancy.
func (g *Group) remainingLocked() int {
	return g.maxCount - (len(g.kept) + len(g.added))
}

func (g *Group) generatePreview(f *domain.PendingFile) {
	defer g.previews.Done()
	encoded := base64.StdEncoding.EncodeToString(f.Data)
	g.mu.Lock()
	f.Preview = fmt.Sprintf("data:%s;base64,%s", f.ContentType, encoded)
	g.mu.Unlock()
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
