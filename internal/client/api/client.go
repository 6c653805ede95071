package api

import (
	"context"

	"github.com/minhwalab/minhwa-cli/internal/client/models"
)

// UploadFile is the binary payload of a conversion request.
type UploadFile struct {
	Name string
	MIME string
	Data []byte
}

// PredictOptions carries the optional conversion parameters. Empty fields
// are omitted from the request.
type PredictOptions struct {
	Style   string
	Quality string
	Prompt  string
}

// Client is the transport-agnostic contract for talking to the minhwa
// backend. All methods honor context cancellation and timeouts.
type Client interface {
	Close() error

	// SetToken installs the access token attached to subsequent requests.
	// An empty token removes the header.
	SetToken(token string)

	// Login exchanges credentials for a user record and an access token.
	Login(ctx context.Context, email, password string) (*models.User, string, error)

	// Predict submits an image for conversion.
	Predict(ctx context.Context, userID string, file UploadFile, opts PredictOptions) (*models.PredictResult, error)

	// TempImages lists unfinalized conversion results for a user.
	TempImages(ctx context.Context, userID string, limit, skip int) ([]models.ImageRecord, error)

	// FinalizedImages lists results confirmed for the permanent gallery.
	FinalizedImages(ctx context.Context, userID string) ([]models.ImageRecord, error)

	// Finalize confirms a temporary result for the permanent gallery.
	Finalize(ctx context.Context, imageID string) error

	// DeleteImage removes a server-side conversion result.
	DeleteImage(ctx context.Context, imageID string) error

	// TransformURL derives the displayable URL of a transformed asset,
	// including a cache-busting query parameter.
	TransformURL(imageID string) string
}
