// Package model defines the record shapes synchronized between the local
// cache and the content backend. All record types are comparable value
// types: the pull synchronizer diffs whole records by value, so any field
// change makes a record count as a different element.
package model

import (
	"fmt"
	"net/url"

	"golang.org/x/text/language"
)

// Shape is the categorical mask selector rendered behind a post cover.
type Shape string

const (
	ShapeClover Shape = "clover"
	ShapeHeart  Shape = "heart"
	ShapeStar   Shape = "star"
	ShapeCircle Shape = "circle"
)

// Shapes lists every selectable mask, in display order.
func Shapes() []Shape {
	return []Shape{ShapeClover, ShapeHeart, ShapeStar, ShapeCircle}
}

// Valid reports whether s names a known mask.
func (s Shape) Valid() bool {
	switch s {
	case ShapeClover, ShapeHeart, ShapeStar, ShapeCircle:
		return true
	}

	return false
}

// Locale is a BCP-47 tag from the backend's supported set. The empty
// string means the record is global (no locale restriction).
type Locale string

const (
	LocaleGlobal Locale = ""
	LocaleEN     Locale = "en"
	LocaleZH     Locale = "zh"
	LocaleZHTW   Locale = "zh-TW"
)

// supportedLocales is the fixed set the backend accepts, matched through
// x/text so spellings like "zh-tw" normalize to the canonical tag.
var supportedLocales = []language.Tag{
	language.English,
	language.SimplifiedChinese,
	language.TraditionalChinese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var canonicalLocale = map[language.Tag]Locale{
	language.English:            LocaleEN,
	language.SimplifiedChinese:  LocaleZH,
	language.TraditionalChinese: LocaleZHTW,
}

// ParseLocale normalizes a tag against the supported set. The empty
// string parses to LocaleGlobal; anything the matcher cannot place on a
// supported tag is an error.
func ParseLocale(s string) (Locale, error) {
	if s == "" {
		return LocaleGlobal, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return LocaleGlobal, fmt.Errorf("parsing locale %q: %w", s, err)
	}

	_, idx, conf := localeMatcher.Match(tag)
	if conf < language.High {
		return LocaleGlobal, fmt.Errorf("unsupported locale %q", s)
	}

	return canonicalLocale[supportedLocales[idx]], nil
}

// Cover is a post's image attachment. The zero value means no cover.
type Cover struct {
	// Image is either a remote URL or a file:// reference to a local
	// image pending upload.
	Image string

	// Alt is the alternative text sent alongside the image.
	Alt string

	// ImageID is the backend-side id of the uploaded image, zero until
	// the image has been uploaded and registered.
	ImageID int64
}

// None reports whether the cover is the zero value.
func (c Cover) None() bool {
	return c == Cover{}
}

// Post is an update post record.
type Post struct {
	ID      Identity
	Created int64 // unix milliseconds
	Header  string
	Title   string
	Summary string
	Cover   Cover
	Mask    Shape
	Locale  Locale
	Trashed bool
}

// NewPost returns a fresh draft post with default texts, mirroring what
// the composer starts from.
func NewPost(now int64) Post {
	return Post{
		ID:      NewLocal(),
		Created: now,
		Header:  "Status update",
		Title:   "New post",
		Summary: "No content",
		Mask:    ShapeClover,
		Locale:  LocaleEN,
	}
}

// GalleryItem is a single gallery entry. Image may be a local file
// reference while the item is a draft.
type GalleryItem struct {
	ID      Identity
	Locale  Locale
	Caption string
	Image   string
	Alt     string
	Created int64 // unix milliseconds
	Trashed bool
}

// NewGalleryItem returns a fresh draft gallery item.
func NewGalleryItem(now int64) GalleryItem {
	return GalleryItem{
		ID:      NewLocal(),
		Created: now,
	}
}

// IsLocalFile reports whether ref is a file:// URL, the convention that
// marks an image as pending upload.
func IsLocalFile(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}

	return u.Scheme == "file"
}

// LocalFilePath extracts the filesystem path from a file:// reference.
func LocalFilePath(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing file reference: %w", err)
	}

	if u.Scheme != "file" {
		return "", fmt.Errorf("not a local file reference: %q", ref)
	}

	// RFC 8089 allows an empty host or "localhost" for local files;
	// anything else names a remote machine and must not resolve to a
	// local path.
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("file reference names foreign host %q: %q", u.Host, ref)
	}

	if u.Path == "" {
		return "", fmt.Errorf("file reference has no path: %q", ref)
	}

	return u.Path, nil
}
