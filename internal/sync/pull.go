package sync

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/zhufucdev/control-sync/internal/diff"
	"github.com/zhufucdev/control-sync/internal/model"
	"github.com/zhufucdev/control-sync/internal/store"
)

// PullPosts fetches the remote post collection and diffs it against the
// local snapshot. Records are compared by whole value, so a remote-side
// edit shows up as a removal of the old record plus an addition of the
// new one rather than a field patch.
func (s *Synchronizer) PullPosts(ctx context.Context) (diff.Diff[model.Post], error) {
	payloads, err := s.backend.ListPosts(ctx)
	if err != nil {
		return diff.Diff[model.Post]{}, fmt.Errorf("pulling posts: %w", err)
	}

	remote := make([]model.Post, 0, len(payloads))
	for _, p := range payloads {
		remote = append(remote, p.Model())
	}

	local, err := s.store.Posts(store.FilterAll)
	if err != nil {
		return diff.Diff[model.Post]{}, fmt.Errorf("reading cached posts: %w", err)
	}

	return diff.New(local, remote), nil
}

// ApplyPosts reconciles the cache with a pulled diff. Removals only
// apply to acknowledged records; drafts are local-only and never removed
// here regardless of what the diff contains.
func (s *Synchronizer) ApplyPosts(d diff.Diff[model.Post]) error {
	for removal := range d.Removal {
		if removal.ID.Draft() {
			continue
		}

		if err := s.store.DeletePost(removal.ID); err != nil {
			return fmt.Errorf("removing post %s: %w", removal.ID, err)
		}
	}

	for addition := range d.Addition {
		if err := s.store.SavePost(addition); err != nil {
			return fmt.Errorf("inserting post %s: %w", addition.ID, err)
		}
	}

	return nil
}

// PullGallery fetches the remote gallery collection and diffs it against
// the local snapshot.
func (s *Synchronizer) PullGallery(ctx context.Context) (diff.Diff[model.GalleryItem], error) {
	payloads, err := s.backend.ListGallery(ctx)
	if err != nil {
		return diff.Diff[model.GalleryItem]{}, fmt.Errorf("pulling gallery: %w", err)
	}

	remote := make([]model.GalleryItem, 0, len(payloads))
	for _, g := range payloads {
		remote = append(remote, g.Model())
	}

	local, err := s.store.GalleryItems(store.FilterAll)
	if err != nil {
		return diff.Diff[model.GalleryItem]{}, fmt.Errorf("reading cached gallery: %w", err)
	}

	return diff.New(local, remote), nil
}

// ApplyGallery reconciles the cache with a pulled gallery diff. Drafts
// are never removed.
func (s *Synchronizer) ApplyGallery(d diff.Diff[model.GalleryItem]) error {
	for removal := range d.Removal {
		if removal.ID.Draft() {
			continue
		}

		if err := s.store.DeleteGalleryItem(removal.ID); err != nil {
			return fmt.Errorf("removing gallery item %s: %w", removal.ID, err)
		}
	}

	for addition := range d.Addition {
		if err := s.store.SaveGalleryItem(addition); err != nil {
			return fmt.Errorf("inserting gallery item %s: %w", addition.ID, err)
		}
	}

	return nil
}

// Pull reconciles both collections and tracks the observable pull
// state. Context cancellation resolves to nil and leaves the state
// untouched, so a cancelled background refresh never surfaces as a pull
// failure.
func (s *Synchronizer) Pull(ctx context.Context) error {
	prev := s.PullState()
	s.setPullState(PullState{Phase: Pulling})

	err := s.pull(ctx)
	if err != nil {
		if stderrors.Is(err, context.Canceled) {
			s.logger.Debug("pull cancelled", slog.String("cause", err.Error()))
			s.setPullState(prev)

			return nil
		}

		s.setPullState(PullState{Phase: PullFailed, Err: err})

		return err
	}

	s.setPullState(PullState{Phase: PullIdle})

	return nil
}

// PullState returns what a status surface should currently render for
// the pull flow.
func (s *Synchronizer) PullState() PullState {
	s.pullMu.Lock()
	defer s.pullMu.Unlock()

	return s.pullState
}

func (s *Synchronizer) setPullState(st PullState) {
	s.pullMu.Lock()
	s.pullState = st
	s.pullMu.Unlock()
}

// PendingPosts returns cached drafts awaiting their first push, in
// creation order.
func (s *Synchronizer) PendingPosts() ([]model.Post, error) {
	posts, err := s.store.Posts(store.FilterAll)
	if err != nil {
		return nil, err
	}

	var drafts []model.Post
	for _, p := range posts {
		if p.ID.Draft() {
			drafts = append(drafts, p)
		}
	}

	return drafts, nil
}

// PendingGalleryItems returns cached gallery drafts awaiting their
// first push, in creation order.
func (s *Synchronizer) PendingGalleryItems() ([]model.GalleryItem, error) {
	items, err := s.store.GalleryItems(store.FilterAll)
	if err != nil {
		return nil, err
	}

	var drafts []model.GalleryItem
	for _, g := range items {
		if g.ID.Draft() {
			drafts = append(drafts, g)
		}
	}

	return drafts, nil
}

func (s *Synchronizer) pull(ctx context.Context) error {
	posts, err := s.PullPosts(ctx)
	if err != nil {
		return err
	}

	if err := s.ApplyPosts(posts); err != nil {
		return err
	}

	gallery, err := s.PullGallery(ctx)
	if err != nil {
		return err
	}

	if err := s.ApplyGallery(gallery); err != nil {
		return err
	}

	s.logger.Debug("pull complete",
		slog.Int("post_additions", len(posts.Addition)),
		slog.Int("post_removals", len(posts.Removal)),
		slog.Int("gallery_additions", len(gallery.Addition)),
		slog.Int("gallery_removals", len(gallery.Removal)),
	)

	return nil
}
