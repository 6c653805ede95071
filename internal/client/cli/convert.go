package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/minhwalab/minhwa-cli/internal/client/workflow"
)

// Upload selects a local image for conversion, replacing any previously
// selected, uncommitted one. The path may be given as an argument or
// entered interactively.
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.guard(ctx) {
		return nil
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		var err error
		path, err = getSimpleText(a.reader, "Enter image path", os.Stdout)
		if err != nil {
			return err
		}
	}

	flow := a.ensureFlow()
	if err := flow.SelectImage(path); err != nil {
		a.log.Error(ctx, "selecting image", "path", path, "error", err)
		printlnFn("Could not read that image.")
		return err
	}

	sel := flow.Selection()
	printlnFn(fmt.Sprintf("Image ready: %s (%d bytes)", sel.Name, len(sel.Data)))
	return nil
}

// Convert runs the minhwa transformation on the selected image, shows the
// preview and commits it to the result list when the user closes it.
func (a *App) Convert(ctx context.Context) error {
	if !a.guard(ctx) {
		return nil
	}
	flow := a.ensureFlow()

	style, err := getSimpleText(a.reader, "Style (optional, Enter to skip)", os.Stdout)
	if err != nil {
		return err
	}
	prompt, err := getSimpleText(a.reader, "Prompt (optional, Enter to skip)", os.Stdout)
	if err != nil {
		return err
	}

	printlnFn("Converting...")
	item, err := flow.Convert(ctx, workflow.ConvertOptions{Style: style, Prompt: prompt})
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNoImage):
			printlnFn("Please upload an image first.")
		case errors.Is(err, workflow.ErrBusy):
			printlnFn("A conversion is already running.")
		case errors.Is(err, workflow.ErrAbandoned):
			// nothing to report; the attempt was abandoned on purpose
		default:
			a.log.Error(ctx, "conversion failed", "error", err)
			printlnFn("Conversion failed. Your image is kept; try again.")
		}
		return err
	}

	printlnFn("Conversion complete!")
	printlnFn("Preview: " + item.ImageURL)

	if _, err := getSimpleText(a.reader, "Press Enter to save it to your results", os.Stdout); err != nil {
		return err
	}
	flow.DismissPreview()
	printlnFn("Saved. Use 'history' to see your results or 'finalize' to add it to your gallery.")
	return nil
}
