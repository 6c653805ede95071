// Package workflow drives one image through the remote transform pipeline
// and manages the resulting gallery list.
//
// Per attempt the workflow moves through
//
//	Idle → Uploaded → Converting → Preview → (committed)
//
// with Converting → Failed on error, selection retained for retry. The list
// of committed results is owned by this instance and kept newest-first.
package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/minhwalab/minhwa-cli/internal/client/api"
	"github.com/minhwalab/minhwa-cli/internal/client/models"
	"github.com/minhwalab/minhwa-cli/internal/common"
	"github.com/minhwalab/minhwa-cli/internal/logging"
)

type State string

const (
	StateIdle       State = "idle"
	StateUploaded   State = "uploaded"
	StateConverting State = "converting"
	StatePreview    State = "preview"
	StateFailed     State = "failed"
)

// ConvertOptions are the optional style parameters of a conversion.
type ConvertOptions struct {
	Style   string
	Quality string
	Prompt  string
}

// Workflow is owned by a single screen instance. Methods are safe to call
// from UI and completion callbacks; a busy flag serializes conversions.
type Workflow struct {
	api    api.Client
	picker Picker
	log    logging.Logger
	userID string
	limit  int

	mu        sync.Mutex
	state     State
	selection *Selection
	preview   *models.GalleryItem
	items     []models.GalleryItem
	busy      bool
	gen       uint64
}

// New builds a workflow scoped to userID. userID may be empty for guest
// use; history loading then short-circuits.
func New(apiClient api.Client, picker Picker, log logging.Logger, userID string, historyLimit int) *Workflow {
	if picker == nil {
		picker = LocalPicker{}
	}
	return &Workflow{
		api:    apiClient,
		picker: picker,
		log:    log.With("component", "workflow"),
		userID: userID,
		limit:  historyLimit,
		state:  StateIdle,
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Selection returns the currently selected image, or nil.
func (w *Workflow) Selection() *Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection
}

// Preview returns the pending preview item, or nil.
func (w *Workflow) Preview() *models.GalleryItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.preview == nil {
		return nil
	}
	item := *w.preview
	return &item
}

// Items returns a copy of the committed gallery list, newest first.
func (w *Workflow) Items() []models.GalleryItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.GalleryItem, len(w.items))
	copy(out, w.items)
	return out
}

// SelectImage picks an image via the configured Picker. The new selection
// replaces any previously selected, uncommitted image. File type and size
// are not validated here beyond what the picker itself restricts.
func (w *Workflow) SelectImage(path string) error {
	sel, err := w.picker.Pick(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.selection = sel
	if w.state == StateIdle || w.state == StateFailed {
		w.state = StateUploaded
	}
	return nil
}

// Convert submits the selected image for remote transformation. With no
// selection it fails fast with ErrNoImage and no network call; while a
// conversion is in flight it returns ErrBusy. On success the result becomes
// the pending preview; on failure the selection is kept so the user may
// retry. A result arriving after Reset is discarded (ErrAbandoned).
func (w *Workflow) Convert(ctx context.Context, opts ConvertOptions) (*models.GalleryItem, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.selection == nil {
		w.mu.Unlock()
		return nil, ErrNoImage
	}
	sel := w.selection
	gen := w.gen
	w.busy = true
	w.state = StateConverting
	w.mu.Unlock()

	file := api.UploadFile{Name: sel.Name, MIME: sel.MIME, Data: sel.Data}
	result, err := w.api.Predict(ctx, w.userID, file, api.PredictOptions{
		Style:   opts.Style,
		Quality: opts.Quality,
		Prompt:  opts.Prompt,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false

	if gen != w.gen {
		// The user navigated away mid-flight; do not touch state.
		w.log.Info(ctx, "discarding stale conversion result")
		return nil, ErrAbandoned
	}

	if err != nil {
		w.state = StateFailed
		return nil, fmt.Errorf("convert: %w", err)
	}

	item := models.GalleryItem{
		ID:        result.ImageID,
		ImageURL:  w.api.TransformURL(result.ImageID),
		Timestamp: models.FormatTimestamp(result.CreatedAt),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
		item.Ephemeral = true
	}

	w.preview = &item
	w.state = StatePreview
	w.log.Info(ctx, "conversion ready", "image_id", item.ID)
	return &item, nil
}

// DismissPreview commits the pending preview to the head of the gallery
// list and clears preview state. Without a pending preview it is a no-op
// and returns nil.
func (w *Workflow) DismissPreview() *models.GalleryItem {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.preview == nil {
		return nil
	}

	item := *w.preview
	w.items = append([]models.GalleryItem{item}, w.items...)
	w.preview = nil
	w.selection = nil
	w.state = StateIdle
	return &item
}

// DeleteItem removes the matching item from the local list immediately.
// Server-issued ids are also deleted remotely; a remote failure is returned
// to the caller but the optimistic local removal stands — the lists diverge
// until the next LoadHistory.
func (w *Workflow) DeleteItem(ctx context.Context, id string) error {
	w.mu.Lock()
	idx := -1
	for i, item := range w.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	ephemeral := w.items[idx].Ephemeral
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	w.mu.Unlock()

	if ephemeral {
		return nil
	}
	if err := w.api.DeleteImage(ctx, id); err != nil {
		w.log.Error(ctx, "remote delete failed", "image_id", id, "error", err)
		return fmt.Errorf("remote delete: %w", err)
	}
	return nil
}

// LoadHistory replaces the gallery list wholesale with the user's
// unfinalized results. An empty user id yields an empty list with no
// network call.
func (w *Workflow) LoadHistory(ctx context.Context) ([]models.GalleryItem, error) {
	if w.userID == "" {
		w.mu.Lock()
		w.items = nil
		w.mu.Unlock()
		return nil, nil
	}

	records, err := w.api.TempImages(ctx, w.userID, w.limit, 0)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	items := w.toItems(records)
	w.mu.Lock()
	w.items = items
	w.mu.Unlock()
	return w.Items(), nil
}

// LoadGallery fetches the user's finalized artworks. The result is returned
// to the caller and does not replace the workflow's own history list.
func (w *Workflow) LoadGallery(ctx context.Context) ([]models.GalleryItem, error) {
	if w.userID == "" {
		return nil, nil
	}
	records, err := w.api.FinalizedImages(ctx, w.userID)
	if err != nil {
		return nil, fmt.Errorf("loading gallery: %w", err)
	}
	return w.toItems(records), nil
}

// Finalize confirms a conversion result for the permanent gallery and marks
// the local item accordingly.
func (w *Workflow) Finalize(ctx context.Context, id string) error {
	if err := w.api.Finalize(ctx, id); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.items {
		if w.items[i].ID == id {
			w.items[i].IsFinal = true
			break
		}
	}
	return nil
}

// Reset abandons the current attempt: the selection and pending preview are
// dropped, and any in-flight conversion result will be discarded instead of
// applied. The committed gallery list survives.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.selection = nil
	w.preview = nil
	w.state = StateIdle
}

// toItems maps server records to display items, newest first.
func (w *Workflow) toItems(records []models.ImageRecord) []models.GalleryItem {
	sorted := make([]models.ImageRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	items := make([]models.GalleryItem, 0, len(sorted))
	for _, rec := range sorted {
		items = append(items, models.GalleryItem{
			ID:        rec.ImageID,
			ImageURL:  w.api.TransformURL(rec.ImageID),
			Timestamp: models.FormatTimestamp(rec.CreatedAt),
			IsFinal:   rec.IsFinal,
		})
	}
	return items
}
