package api

import (
	"github.com/zhufucdev/control-sync/internal/model"
)

// CoverPayload is the cover object embedded in post payloads.
type CoverPayload struct {
	Image string `json:"image"`
	Alt   string `json:"alt"`
	ID    int64  `json:"id"`
}

// PostPayload is a post as the backend serves it from GET /update/list.
type PostPayload struct {
	ID      int64         `json:"id"`
	Created int64         `json:"created"`
	Header  string        `json:"header"`
	Title   string        `json:"title"`
	Summary string        `json:"summary"`
	Cover   *CoverPayload `json:"cover,omitempty"`
	Mask    string        `json:"mask"`
	Locale  string        `json:"locale,omitempty"`
	Trashed bool          `json:"trashed"`
}

// Model converts a wire post to the local record shape.
func (p PostPayload) Model() model.Post {
	post := model.Post{
		ID:      model.NewRemote(p.ID),
		Created: p.Created,
		Header:  p.Header,
		Title:   p.Title,
		Summary: p.Summary,
		Mask:    model.Shape(p.Mask),
		Locale:  model.Locale(p.Locale),
		Trashed: p.Trashed,
	}

	if p.Cover != nil {
		post.Cover = model.Cover{
			Image:   p.Cover.Image,
			Alt:     p.Cover.Alt,
			ImageID: p.Cover.ID,
		}
	}

	return post
}

// PostCreateRequest is the payload for PUT /update. Cover carries the
// registered image id, not the URL; the backend resolves it.
type PostCreateRequest struct {
	Locale  string `json:"locale,omitempty"`
	Header  string `json:"header"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Cover   *int64 `json:"cover,omitempty"`
	Mask    string `json:"mask"`
}

// PostPatchRequest is the payload for PATCH /update/{id}. All fields are
// sent; the backend applies them as a partial update over server state.
type PostPatchRequest struct {
	Locale  string `json:"locale,omitempty"`
	Header  string `json:"header"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Cover   *int64 `json:"cover,omitempty"`
	Mask    string `json:"mask"`
	Trashed bool   `json:"trashed"`
}

// GalleryPayload is a gallery item as served from GET /gallery/list. The
// wire field for the associated text is "tweet" for historical reasons.
type GalleryPayload struct {
	ID      int64  `json:"id"`
	Locale  string `json:"locale,omitempty"`
	Caption string `json:"tweet,omitempty"`
	Image   string `json:"image"`
	Alt     string `json:"alt"`
	Created int64  `json:"created"`
	Trashed bool   `json:"trashed"`
}

// Model converts a wire gallery item to the local record shape.
func (g GalleryPayload) Model() model.GalleryItem {
	return model.GalleryItem{
		ID:      model.NewRemote(g.ID),
		Locale:  model.Locale(g.Locale),
		Caption: g.Caption,
		Image:   g.Image,
		Alt:     g.Alt,
		Created: g.Created,
		Trashed: g.Trashed,
	}
}

// GalleryCreateRequest is the payload for PUT /gallery.
type GalleryCreateRequest struct {
	Locale  string `json:"locale,omitempty"`
	Caption string `json:"tweet,omitempty"`
	ImageID int64  `json:"imageId"`
}

// GalleryPatchRequest is the payload for PATCH /gallery/{id}.
type GalleryPatchRequest struct {
	Locale  string `json:"locale,omitempty"`
	Caption string `json:"tweet,omitempty"`
	Trashed bool   `json:"trashed"`
}

// ImageResource is returned from POST /image: the hosted URL plus the
// backend-local image id.
type ImageResource struct {
	URL string `json:"url"`
	ID  int64  `json:"id"`
}

// ImageRegisterRequest is the payload for PUT /image, registering an
// externally-uploaded image with the backend.
type ImageRegisterRequest struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// idResponse carries the single id the create endpoints return.
type idResponse struct {
	ID int64 `json:"id"`
}
