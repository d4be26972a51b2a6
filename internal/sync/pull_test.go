package sync

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhufucdev/control-sync/internal/api"
	"github.com/zhufucdev/control-sync/internal/errors"
	"github.com/zhufucdev/control-sync/internal/model"
	"github.com/zhufucdev/control-sync/internal/store"
	"go.uber.org/mock/gomock"
)

// --- PullPosts / ApplyPosts ---

func TestPull_AddsRemovesAndKeepsDrafts(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	// Local cache: one stale remote record and one unsent draft.
	stale := model.NewPost(100)
	stale.ID = model.NewRemote(1)
	stale.Title = "stale"
	require.NoError(t, st.SavePost(stale))

	draft := model.NewPost(200)
	draft.Title = "unsent draft"
	require.NoError(t, st.SavePost(draft))

	// Remote: the stale record is gone, a new one exists.
	backend.EXPECT().ListPosts(gomock.Any()).Return([]api.PostPayload{
		{ID: 2, Created: 300, Title: "fresh", Mask: "clover", Locale: "en"},
	}, nil)
	backend.EXPECT().ListGallery(gomock.Any()).Return(nil, nil)

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())

	require.NoError(t, engine.Pull(context.Background()))

	_, err := st.GetPost(stale.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound, "stale remote record must be removed")

	kept, err := st.GetPost(draft.ID)
	require.NoError(t, err, "drafts must survive reconciliation")
	assert.Equal(t, "unsent draft", kept.Title)

	fresh, err := st.GetPost(model.NewRemote(2))
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.Title)
	assert.Equal(t, model.LocaleEN, fresh.Locale)

	assert.Equal(t, PullIdle, engine.PullState().Phase)
}

func TestPull_RemoteEditReplacesRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	old := model.NewPost(100)
	old.ID = model.NewRemote(1)
	old.Title = "before edit"
	old.Mask = model.ShapeClover
	require.NoError(t, st.SavePost(old))

	backend.EXPECT().ListPosts(gomock.Any()).Return([]api.PostPayload{
		{ID: 1, Created: 100, Title: "after edit", Mask: "clover"},
	}, nil)
	backend.EXPECT().ListGallery(gomock.Any()).Return(nil, nil)

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())

	require.NoError(t, engine.Pull(context.Background()))

	got, err := st.GetPost(model.NewRemote(1))
	require.NoError(t, err)
	assert.Equal(t, "after edit", got.Title)
}

func TestPullPosts_DiffOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	backend.EXPECT().ListPosts(gomock.Any()).Return([]api.PostPayload{
		{ID: 1, Created: 100, Title: "one", Mask: "clover"},
	}, nil)

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())

	d, err := engine.PullPosts(context.Background())
	require.NoError(t, err)

	assert.Len(t, d.Addition, 1)
	assert.Empty(t, d.Removal)

	// Pulling without applying leaves the cache untouched.
	posts, err := st.Posts(store.FilterAll)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

// --- Gallery ---

func TestPull_GalleryReconciled(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	stale := model.NewGalleryItem(100)
	stale.ID = model.NewRemote(1)
	require.NoError(t, st.SaveGalleryItem(stale))

	draft := model.NewGalleryItem(200)
	require.NoError(t, st.SaveGalleryItem(draft))

	backend.EXPECT().ListPosts(gomock.Any()).Return(nil, nil)
	backend.EXPECT().ListGallery(gomock.Any()).Return([]api.GalleryPayload{
		{ID: 2, Created: 300, Caption: "fresh", Image: "https://cdn/f.jpg"},
	}, nil)

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())

	require.NoError(t, engine.Pull(context.Background()))

	_, err := st.GetGalleryItem(stale.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = st.GetGalleryItem(draft.ID)
	assert.NoError(t, err)

	fresh, err := st.GetGalleryItem(model.NewRemote(2))
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh.Caption)
}

// --- Pull state ---

func TestPull_FailureSetsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)

	wantErr := stderrors.New("backend down")
	backend.EXPECT().ListPosts(gomock.Any()).Return(nil, wantErr)

	engine := New(backend, testStore(t), staticUploader(UploadResult{}), testLogger())

	err := engine.Pull(context.Background())
	require.ErrorIs(t, err, wantErr)

	state := engine.PullState()
	assert.Equal(t, PullFailed, state.Phase)
	assert.ErrorIs(t, state.Err, wantErr)
}

func TestPull_CancellationIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	// Drive the engine into a failed state first so restoration is
	// observable.
	wantErr := stderrors.New("backend down")
	backend.EXPECT().ListPosts(gomock.Any()).Return(nil, wantErr)

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())
	require.Error(t, engine.Pull(context.Background()))

	backend.EXPECT().ListPosts(gomock.Any()).Return(nil, context.Canceled)

	err := engine.Pull(context.Background())
	assert.NoError(t, err, "cancellation must not surface as a pull failure")

	state := engine.PullState()
	assert.Equal(t, PullFailed, state.Phase, "cancellation must leave the previous state in place")
}

func TestPull_SuccessClearsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)

	backend.EXPECT().ListPosts(gomock.Any()).Return(nil, stderrors.New("down"))

	engine := New(backend, testStore(t), staticUploader(UploadResult{}), testLogger())
	require.Error(t, engine.Pull(context.Background()))

	backend.EXPECT().ListPosts(gomock.Any()).Return(nil, nil)
	backend.EXPECT().ListGallery(gomock.Any()).Return(nil, nil)

	require.NoError(t, engine.Pull(context.Background()))

	state := engine.PullState()
	assert.Equal(t, PullIdle, state.Phase)
	assert.NoError(t, state.Err)
}

// --- Pending drafts ---

func TestPendingPosts_DraftsOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	acked := model.NewPost(100)
	acked.ID = model.NewRemote(1)
	require.NoError(t, st.SavePost(acked))

	draft := model.NewPost(200)
	require.NoError(t, st.SavePost(draft))

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())

	pending, err := engine.PendingPosts()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, draft.ID, pending[0].ID)
}

func TestPendingGalleryItems_DraftsOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := NewMockBackend(ctrl)
	st := testStore(t)

	acked := model.NewGalleryItem(100)
	acked.ID = model.NewRemote(1)
	require.NoError(t, st.SaveGalleryItem(acked))

	draft := model.NewGalleryItem(200)
	require.NoError(t, st.SaveGalleryItem(draft))

	engine := New(backend, st, staticUploader(UploadResult{}), testLogger())

	pending, err := engine.PendingGalleryItems()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, draft.ID, pending[0].ID)
}
