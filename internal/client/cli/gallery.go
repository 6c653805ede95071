package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/minhwalab/minhwa-cli/internal/client/models"
	"github.com/minhwalab/minhwa-cli/internal/common"
)

func printItems(items []models.GalleryItem, emptyMsg string) {
	if len(items) == 0 {
		printlnFn(emptyMsg)
		return
	}
	for _, item := range items {
		marker := " "
		if item.IsFinal {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s  %s", marker, item.ID, item.Timestamp, item.ImageURL))
	}
}

// History reloads and lists the user's conversion results, newest first.
// Finalized results are marked with '*'.
func (a *App) History(ctx context.Context) error {
	if !a.guard(ctx) {
		return nil
	}

	items, err := a.ensureFlow().LoadHistory(ctx)
	if err != nil {
		a.log.Error(ctx, "loading history", "error", err)
		printlnFn("Could not load your results. Please try again.")
		return err
	}
	printItems(items, "No conversions yet. Upload an image and convert it!")
	return nil
}

// Gallery lists the user's finalized artworks.
func (a *App) Gallery(ctx context.Context) error {
	if !a.guard(ctx) {
		return nil
	}

	items, err := a.ensureFlow().LoadGallery(ctx)
	if err != nil {
		a.log.Error(ctx, "loading gallery", "error", err)
		printlnFn("Could not load your gallery. Please try again.")
		return err
	}
	printItems(items, "Your gallery is empty. Finalize a result to add it.")
	return nil
}

// Finalize confirms a conversion result for the permanent gallery.
func (a *App) Finalize(ctx context.Context) error {
	if !a.guard(ctx) {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter image id to finalize", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ensureFlow().Finalize(ctx, id); err != nil {
		a.log.Error(ctx, "finalizing image", "image_id", id, "error", err)
		printlnFn("Could not finalize the image. Please try again.")
		return err
	}
	printlnFn("Added to your gallery.")
	return nil
}

// Delete removes a conversion result. The local list is updated right away;
// when the server-side delete fails the divergence is reported and resolved
// by the next History reload.
func (a *App) Delete(ctx context.Context) error {
	if !a.guard(ctx) {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter image id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ensureFlow().DeleteItem(ctx, id); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			printlnFn("No such item.")
		default:
			a.log.Error(ctx, "deleting image", "image_id", id, "error", err)
			printlnFn("Removed locally, but the server delete failed.")
		}
		return err
	}
	printlnFn("Deleted.")
	return nil
}
