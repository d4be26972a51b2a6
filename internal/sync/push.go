package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	gosync "sync"

	"github.com/zhufucdev/control-sync/internal/api"
	"github.com/zhufucdev/control-sync/internal/model"
	"github.com/zhufucdev/control-sync/internal/store"
)

// pushEventChanSize buffers progress events so a slow consumer does not
// stall the upload transfer.
const pushEventChanSize = 16

// Synchronizer reconciles the local cache against the backend. The
// uploader decides how pending images reach remote storage and is
// selected at construction by the composition root.
type Synchronizer struct {
	backend  Backend
	store    *store.Store
	uploader Uploader
	logger   *slog.Logger

	pullMu    gosync.Mutex
	pullState PullState
}

// New creates a synchronizer over the given collaborators.
func New(backend Backend, st *store.Store, uploader Uploader, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		backend:  backend,
		store:    st,
		uploader: uploader,
		logger:   logger,
	}
}

// PushPost pushes a single cached post through the pipeline: upload the
// cover if it is still a local file, then create (drafts) or patch
// (acknowledged records) the post remotely. Progress is delivered on the
// returned channel, which closes after the terminal event; a failure is
// the final event with Err set.
//
// Two concurrent pushes of the same record are not serialized here; that
// remains the caller's obligation.
func (s *Synchronizer) PushPost(ctx context.Context, id model.Identity) <-chan PushEvent {
	events := make(chan PushEvent, pushEventChanSize)

	go func() {
		defer close(events)

		if err := s.pushPost(ctx, id, events); err != nil {
			events <- PushEvent{Err: err}
		}
	}()

	return events
}

func (s *Synchronizer) pushPost(ctx context.Context, id model.Identity, events chan<- PushEvent) error {
	post, err := s.store.GetPost(id)
	if err != nil {
		return fmt.Errorf("loading post %s: %w", id, err)
	}

	if !post.Cover.None() && model.IsLocalFile(post.Cover.Image) {
		result, err := s.uploadStage(ctx, post.Cover.Image, post.Cover.Alt, events)
		if err != nil {
			return err
		}

		post.Cover.Image = result.URL
		post.Cover.ImageID = result.ImageID

		// Persist the rewritten cover before the content stage so a
		// failed create does not repeat the upload on retry.
		if err := s.store.SavePost(post); err != nil {
			return fmt.Errorf("saving post after upload: %w", err)
		}
	}

	var coverID *int64
	if !post.Cover.None() && post.Cover.ImageID != 0 {
		coverID = &post.Cover.ImageID
	}

	if post.ID.Draft() {
		events <- PushEvent{State: StateCreatingContent}

		newID, err := s.backend.CreatePost(ctx, api.PostCreateRequest{
			Locale:  string(post.Locale),
			Header:  post.Header,
			Title:   post.Title,
			Summary: post.Summary,
			Cover:   coverID,
			Mask:    string(post.Mask),
		})
		if err != nil {
			return err
		}

		draftID := post.ID
		post.ID = model.NewRemote(newID)

		if err := s.store.ReplacePost(draftID, post); err != nil {
			return fmt.Errorf("rewriting post identity: %w", err)
		}

		return nil
	}

	events <- PushEvent{State: StateUpdatingContent}

	err = s.backend.PatchPost(ctx, post.ID.Remote, api.PostPatchRequest{
		Locale:  string(post.Locale),
		Header:  post.Header,
		Title:   post.Title,
		Summary: post.Summary,
		Cover:   coverID,
		Mask:    string(post.Mask),
		Trashed: post.Trashed,
	})
	if err != nil {
		return err
	}

	return s.store.SavePost(post)
}

// PushGalleryItem pushes a single cached gallery item. Same stream
// contract as PushPost.
func (s *Synchronizer) PushGalleryItem(ctx context.Context, id model.Identity) <-chan PushEvent {
	events := make(chan PushEvent, pushEventChanSize)

	go func() {
		defer close(events)

		if err := s.pushGalleryItem(ctx, id, events); err != nil {
			events <- PushEvent{Err: err}
		}
	}()

	return events
}

func (s *Synchronizer) pushGalleryItem(ctx context.Context, id model.Identity, events chan<- PushEvent) error {
	item, err := s.store.GetGalleryItem(id)
	if err != nil {
		return fmt.Errorf("loading gallery item %s: %w", id, err)
	}

	if item.ID.Draft() {
		var imageID int64

		if model.IsLocalFile(item.Image) {
			result, err := s.uploadStage(ctx, item.Image, item.Alt, events)
			if err != nil {
				return err
			}

			item.Image = result.URL
			imageID = result.ImageID

			if err := s.store.SaveGalleryItem(item); err != nil {
				return fmt.Errorf("saving gallery item after upload: %w", err)
			}
		} else {
			// The image is already hosted (for example a retry after a
			// failed create); register it to obtain the backend id.
			imageID, err = s.backend.RegisterImage(ctx, item.Image, item.Alt)
			if err != nil {
				return err
			}
		}

		events <- PushEvent{State: StateCreatingContent}

		newID, err := s.backend.CreateGalleryItem(ctx, api.GalleryCreateRequest{
			Locale:  string(item.Locale),
			Caption: item.Caption,
			ImageID: imageID,
		})
		if err != nil {
			return err
		}

		draftID := item.ID
		item.ID = model.NewRemote(newID)

		if err := s.store.ReplaceGalleryItem(draftID, item); err != nil {
			return fmt.Errorf("rewriting gallery item identity: %w", err)
		}

		return nil
	}

	events <- PushEvent{State: StateUpdatingContent}

	err = s.backend.PatchGalleryItem(ctx, item.ID.Remote, api.GalleryPatchRequest{
		Locale:  string(item.Locale),
		Caption: item.Caption,
		Trashed: item.Trashed,
	})
	if err != nil {
		return err
	}

	return s.store.SaveGalleryItem(item)
}

// uploadStage runs the image upload, forwarding strategy progress as
// UploadingImage events, and removes the local file afterwards. Cleanup
// failure is logged, never fatal.
func (s *Synchronizer) uploadStage(ctx context.Context, imageRef, alt string, events chan<- PushEvent) (*UploadResult, error) {
	localPath, err := model.LocalFilePath(imageRef)
	if err != nil {
		return nil, err
	}

	events <- PushEvent{State: StateUploadingImage}

	result, err := s.uploader.Upload(ctx, localPath, alt, func(ev UploadEvent) {
		if ev.State == UploadSending {
			select {
			case events <- PushEvent{State: StateUploadingImage, Progress: ev.Progress}:
			default:
				// Drop intermediate progress rather than stall the transfer.
			}
		}
	})
	if err != nil {
		return nil, err
	}

	if err := os.Remove(localPath); err != nil {
		s.logger.Warn("failed to delete uploaded image",
			slog.String("path", localPath),
			slog.String("error", err.Error()),
		)
	}

	return result, nil
}

// DeletePost removes a post locally and, unless it is a draft the
// backend never saw, remotely first. Purging a draft is local-only.
func (s *Synchronizer) DeletePost(ctx context.Context, id model.Identity) error {
	if !id.Draft() {
		if err := s.backend.DeletePost(ctx, id.Remote); err != nil {
			return err
		}
	}

	return s.store.DeletePost(id)
}

// DeleteGalleryItem removes a gallery item locally and, unless it is a
// draft, remotely first.
func (s *Synchronizer) DeleteGalleryItem(ctx context.Context, id model.Identity) error {
	if !id.Draft() {
		if err := s.backend.DeleteGalleryItem(ctx, id.Remote); err != nil {
			return err
		}
	}

	return s.store.DeleteGalleryItem(id)
}
