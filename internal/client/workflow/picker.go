package workflow

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// Selection is an image chosen for conversion but not yet committed.
type Selection struct {
	Name string
	MIME string
	Data []byte
}

// Picker abstracts how an image is chosen: a path on disk here, a native
// media picker or browser file input on other front ends. The backend is
// selected at composition time, never hard-coded into the workflow.
type Picker interface {
	Pick(path string) (*Selection, error)
}

// LocalPicker reads images from the local filesystem.
type LocalPicker struct{}

func (LocalPicker) Pick(path string) (*Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return &Selection{
		Name: filepath.Base(path),
		MIME: mime.TypeByExtension(filepath.Ext(path)),
		Data: data,
	}, nil
}
