package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/minhwalab/minhwa-cli/internal/client/api"
	"github.com/minhwalab/minhwa-cli/internal/client/config"
	"github.com/minhwalab/minhwa-cli/internal/client/gate"
	"github.com/minhwalab/minhwa-cli/internal/client/repositories/metadata"
	"github.com/minhwalab/minhwa-cli/internal/client/session"
	"github.com/minhwalab/minhwa-cli/internal/client/storage"
	"github.com/minhwalab/minhwa-cli/internal/client/workflow"
	"github.com/minhwalab/minhwa-cli/internal/logging"
)

// App wires the session store, access gate and conversion workflow behind
// the interactive command loop.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	api    api.Client
	store  *session.Store
	gate   *gate.Gate
	picker workflow.Picker

	// flow is created per login and dropped on logout; it is owned by this
	// screen instance and never shared.
	flow *workflow.Workflow

	reader *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := storage.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing local storage: %w", err)
	}

	apiClient := api.NewHTTPClient(c.BaseURL, c.RequestTimeout)
	store := session.NewStore(metadata.NewSQLiteRepository(db), apiClient, log)

	return &App{
		config: c,
		log:    log,
		db:     db,
		api:    apiClient,
		store:  store,
		gate:   gate.New(store, log),
		picker: workflow.LocalPicker{},
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores the session in the background and enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.api.Close()

	go a.store.Restore(ctx)
	a.Root(ctx)
}

func (a *App) LoggedIn() bool {
	return a.store.Snapshot().LoggedIn
}

func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	switch {
	case snap.Loading:
		return "(restoring)"
	case snap.LoggedIn:
		return fmt.Sprintf("(%s)", snap.User.DisplayName())
	default:
		return ""
	}
}

// guard runs the access gate, as every protected command must. On denial it
// tells the user, drops the workflow (the protected screen is gone) and
// returns false.
func (a *App) guard(ctx context.Context) bool {
	status, err := a.gate.Check(ctx)
	if err != nil {
		a.log.Error(ctx, "gate check interrupted", "error", err)
		return false
	}
	switch status {
	case gate.DeniedLoggedOut:
		printlnFn("Please log in first.")
	case gate.DeniedExpired:
		printlnFn("Your session has expired. Please log in again.")
	default:
		return true
	}
	a.flow = nil
	return false
}

// ensureFlow lazily builds the workflow for the current user, e.g. after a
// restored session where Login never ran in this process.
func (a *App) ensureFlow() *workflow.Workflow {
	if a.flow == nil {
		snap := a.store.Snapshot()
		var userID string
		if snap.User != nil {
			userID = snap.User.ID
		}
		a.flow = workflow.New(a.api, a.picker, a.log, userID, a.config.HistoryLimit)
	}
	return a.flow
}
