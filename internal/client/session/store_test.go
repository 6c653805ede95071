package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/minhwalab/minhwa-cli/internal/client/api"
	"github.com/minhwalab/minhwa-cli/internal/client/models"
	"github.com/minhwalab/minhwa-cli/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory metadata.Repository with optional failure injection.
type fakeRepo struct {
	data    map[string][]byte
	failGet bool
	failSet bool
	failDel bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{data: map[string][]byte{}}
}

func (r *fakeRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if r.failGet {
		return nil, errors.New("read failure")
	}
	return r.data[key], nil
}

func (r *fakeRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.failSet {
		return errors.New("write failure")
	}
	r.data[key] = value
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, key string) error {
	if r.failDel {
		return errors.New("delete failure")
	}
	delete(r.data, key)
	return nil
}

func (r *fakeRepo) Clear(ctx context.Context) error {
	r.data = map[string][]byte{}
	return nil
}

// fakeAPI implements api.Client, recording calls.
type fakeAPI struct {
	token      string
	loginCalls int
	loginUser  *models.User
	loginToken string
	loginErr   error
}

func (f *fakeAPI) Close() error          { return nil }
func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	u := *f.loginUser
	return &u, f.loginToken, nil
}

func (f *fakeAPI) Predict(ctx context.Context, userID string, file api.UploadFile, opts api.PredictOptions) (*models.PredictResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) TempImages(ctx context.Context, userID string, limit, skip int) ([]models.ImageRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) FinalizedImages(ctx context.Context, userID string) ([]models.ImageRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) Finalize(ctx context.Context, imageID string) error    { return nil }
func (f *fakeAPI) DeleteImage(ctx context.Context, imageID string) error { return nil }
func (f *fakeAPI) TransformURL(imageID string) string                    { return "http://x/image/" + imageID + "/transform" }

func newTestStore(repo *fakeRepo, apiClient *fakeAPI) *Store {
	return NewStore(repo, apiClient, logging.Discard())
}

func TestNewStore_LoadingUntilRestore(t *testing.T) {
	s := newTestStore(newFakeRepo(), &fakeAPI{})

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.LoggedIn)
}

func TestRestore_ValidRecord(t *testing.T) {
	repo := newFakeRepo()
	stored := models.User{ID: "u1", Name: "Jin", Token: "tok"}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	repo.data["user"] = data

	apiClient := &fakeAPI{}
	s := newTestStore(repo, apiClient)
	s.Restore(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.LoggedIn)
	require.NotNil(t, snap.User)
	assert.Equal(t, stored, *snap.User)
	assert.Equal(t, "tok", apiClient.token)
}

func TestRestore_NoRecord(t *testing.T) {
	s := newTestStore(newFakeRepo(), &fakeAPI{})
	s.Restore(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.User)
}

func TestRestore_ReadFailureStillClearsLoading(t *testing.T) {
	repo := newFakeRepo()
	repo.failGet = true

	s := newTestStore(repo, &fakeAPI{})
	s.Restore(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.LoggedIn)
}

func TestRestore_CorruptRecord(t *testing.T) {
	repo := newFakeRepo()
	repo.data["user"] = []byte("{not json")

	s := newTestStore(repo, &fakeAPI{})
	s.Restore(context.Background())

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.LoggedIn)
}

func TestRestore_RunsOnce(t *testing.T) {
	repo := newFakeRepo()
	s := newTestStore(repo, &fakeAPI{})
	s.Restore(context.Background())

	// a record appearing later must not resurrect on a second call
	repo.data["user"] = []byte(`{"id":"u9"}`)
	s.Restore(context.Background())

	assert.False(t, s.Snapshot().LoggedIn)
}

func TestLogin_PersistsRecordAndToken(t *testing.T) {
	repo := newFakeRepo()
	apiClient := &fakeAPI{}
	s := newTestStore(repo, apiClient)

	s.Login(context.Background(), &models.User{ID: "u1", Token: "tok"})

	snap := s.Snapshot()
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, "tok", apiClient.token)

	var persisted models.User
	require.NoError(t, json.Unmarshal(repo.data["user"], &persisted))
	assert.Equal(t, "u1", persisted.ID)
}

func TestLogin_PersistFailureKeepsMemoryState(t *testing.T) {
	repo := newFakeRepo()
	repo.failSet = true
	s := newTestStore(repo, &fakeAPI{})

	s.Login(context.Background(), &models.User{ID: "u1"})

	assert.True(t, s.Snapshot().LoggedIn)
	assert.Empty(t, repo.data)
}

func TestLogout_ThenFreshRestoreStaysLoggedOut(t *testing.T) {
	repo := newFakeRepo()
	apiClient := &fakeAPI{}
	s := newTestStore(repo, apiClient)

	s.Login(context.Background(), &models.User{ID: "u1", Token: "tok"})
	s.Logout(context.Background())

	assert.False(t, s.Snapshot().LoggedIn)
	assert.Empty(t, apiClient.token)

	// simulate a restart
	fresh := newTestStore(repo, apiClient)
	fresh.Restore(context.Background())
	assert.False(t, fresh.Snapshot().LoggedIn)
}

func TestAuthenticate_EmptyCredentialsNoNetworkCall(t *testing.T) {
	apiClient := &fakeAPI{loginUser: &models.User{ID: "u1"}}
	s := newTestStore(newFakeRepo(), apiClient)

	_, err := s.Authenticate(context.Background(), "  ", []byte("pw"))
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = s.Authenticate(context.Background(), "jin@example.org", []byte("  "))
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.Zero(t, apiClient.loginCalls)
}

func TestAuthenticate_Success(t *testing.T) {
	repo := newFakeRepo()
	apiClient := &fakeAPI{loginUser: &models.User{ID: "u1", Name: "Jin"}, loginToken: "tok123"}
	s := newTestStore(repo, apiClient)

	user, err := s.Authenticate(context.Background(), "jin@example.org", []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "tok123", user.Token)

	snap := s.Snapshot()
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, "tok123", apiClient.token)
	assert.Contains(t, string(repo.data["user"]), "tok123")
}

func TestAuthenticate_BackendFailureLeavesLoggedOut(t *testing.T) {
	apiClient := &fakeAPI{loginErr: errors.New("boom")}
	s := newTestStore(newFakeRepo(), apiClient)

	_, err := s.Authenticate(context.Background(), "jin@example.org", []byte("pw"))
	assert.Error(t, err)
	assert.False(t, s.Snapshot().LoggedIn)
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	s := newTestStore(newFakeRepo(), &fakeAPI{})
	s.Login(context.Background(), &models.User{ID: "u1"})

	snap := s.Snapshot()
	snap.User.ID = "mutated"

	assert.Equal(t, "u1", s.Snapshot().User.ID)
}
