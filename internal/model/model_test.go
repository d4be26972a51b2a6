package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Shape ---

func TestShape_Valid(t *testing.T) {
	for _, s := range Shapes() {
		assert.True(t, s.Valid(), "shape %q", s)
	}

	assert.False(t, Shape("triangle").Valid())
	assert.False(t, Shape("").Valid())
}

// --- Locale ---

func TestParseLocale_Canonicalizes(t *testing.T) {
	cases := map[string]Locale{
		"":      LocaleGlobal,
		"en":    LocaleEN,
		"en-US": LocaleEN,
		"zh":    LocaleZH,
		"zh-CN": LocaleZH,
		"zh-TW": LocaleZHTW,
		"zh-tw": LocaleZHTW,
	}

	for input, want := range cases {
		got, err := ParseLocale(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseLocale_RejectsUnsupported(t *testing.T) {
	_, err := ParseLocale("ja")
	assert.Error(t, err)
}

func TestParseLocale_RejectsGarbage(t *testing.T) {
	_, err := ParseLocale("not a tag!!")
	assert.Error(t, err)
}

// --- Cover ---

func TestCover_None(t *testing.T) {
	assert.True(t, Cover{}.None())
	assert.False(t, Cover{Image: "https://cdn/x.jpg"}.None())
	assert.False(t, Cover{ImageID: 1}.None())
}

// --- Defaults ---

func TestNewPost_Defaults(t *testing.T) {
	p := NewPost(1700000000000)

	assert.True(t, p.ID.Draft())
	assert.Equal(t, int64(1700000000000), p.Created)
	assert.Equal(t, "Status update", p.Header)
	assert.Equal(t, "New post", p.Title)
	assert.Equal(t, "No content", p.Summary)
	assert.Equal(t, ShapeClover, p.Mask)
	assert.Equal(t, LocaleEN, p.Locale)
	assert.True(t, p.Cover.None())
	assert.False(t, p.Trashed)
}

func TestNewGalleryItem_Defaults(t *testing.T) {
	g := NewGalleryItem(1700000000000)

	assert.True(t, g.ID.Draft())
	assert.Equal(t, int64(1700000000000), g.Created)
	assert.False(t, g.Trashed)
}

// --- Local file references ---

func TestIsLocalFile(t *testing.T) {
	assert.True(t, IsLocalFile("file:///tmp/cover.jpg"))
	assert.False(t, IsLocalFile("https://cdn.example.com/cover.jpg"))
	assert.False(t, IsLocalFile(""))
	assert.False(t, IsLocalFile("/tmp/cover.jpg"))
}

func TestLocalFilePath(t *testing.T) {
	path, err := LocalFilePath("file:///tmp/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cover.jpg", path)
}

func TestLocalFilePath_RejectsRemote(t *testing.T) {
	_, err := LocalFilePath("https://cdn.example.com/cover.jpg")
	assert.Error(t, err)
}

func TestLocalFilePath_AllowsLocalhost(t *testing.T) {
	path, err := LocalFilePath("file://localhost/tmp/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cover.jpg", path)
}

func TestLocalFilePath_RejectsForeignHost(t *testing.T) {
	_, err := LocalFilePath("file://fileserver/share/cover.jpg")
	assert.Error(t, err)
}

func TestLocalFilePath_RejectsEmptyPath(t *testing.T) {
	_, err := LocalFilePath("file://")
	assert.Error(t, err)
}
