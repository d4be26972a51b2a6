// Package sync reconciles the local cache against the content backend.
// Pull fetches the remote collections and applies a whole-record set
// diff; push drives a per-record pipeline that uploads any pending local
// image and then creates or updates the record remotely, reporting
// progress as an ordered event stream.
package sync

import (
	"context"
	"io"

	"github.com/zhufucdev/control-sync/internal/api"
)

//go:generate mockgen -source=backend.go -destination=mock_backend_test.go -package=sync

// Backend is the subset of the remote client the synchronizer needs.
// *api.Client satisfies this interface; tests substitute a mock.
type Backend interface {
	ListPosts(ctx context.Context) ([]api.PostPayload, error)
	CreatePost(ctx context.Context, req api.PostCreateRequest) (int64, error)
	PatchPost(ctx context.Context, id int64, req api.PostPatchRequest) error
	DeletePost(ctx context.Context, id int64) error

	ListGallery(ctx context.Context) ([]api.GalleryPayload, error)
	CreateGalleryItem(ctx context.Context, req api.GalleryCreateRequest) (int64, error)
	PatchGalleryItem(ctx context.Context, id int64, req api.GalleryPatchRequest) error
	DeleteGalleryItem(ctx context.Context, id int64) error

	UploadImage(ctx context.Context, r io.Reader, size int64, alt, filename string, progress func(float64)) (*api.ImageResource, error)
	RegisterImage(ctx context.Context, imageURL, alt string) (int64, error)
}
