package sync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tidwall/gjson"
	"github.com/zhufucdev/control-sync/internal/api"
	"github.com/zhufucdev/control-sync/internal/errors"
)

// UploadState names a stage of an image upload.
type UploadState int

const (
	// UploadBuffering means the local file is being read into memory.
	UploadBuffering UploadState = iota

	// UploadSending reports transfer progress.
	UploadSending

	// UploadCompleted means the remote resource exists.
	UploadCompleted
)

// UploadEvent is one entry on an upload progress stream.
type UploadEvent struct {
	State    UploadState
	Progress float64 // meaningful for UploadSending, in [0.0, 1.0]
}

// UploadResult describes the uploaded image: its hosted URL and the
// backend-local image id obtained by upload or registration.
type UploadResult struct {
	URL     string
	ImageID int64
}

// Uploader moves a local image file to remote storage. Implementations
// emit progress through emit (never nil) and return the hosted resource.
type Uploader interface {
	Upload(ctx context.Context, localPath, alt string, emit func(UploadEvent)) (*UploadResult, error)
}

// ProxyUploader streams the file through the backend's /image endpoint
// in a single request; the backend hosts the image and assigns the id.
type ProxyUploader struct {
	backend Backend
}

// NewProxyUploader creates the backend-proxy upload strategy.
func NewProxyUploader(backend Backend) *ProxyUploader {
	return &ProxyUploader{backend: backend}
}

// Upload implements Uploader.
func (u *ProxyUploader) Upload(ctx context.Context, localPath, alt string, emit func(UploadEvent)) (*UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("opening image file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stating image file: %w", err)
	}

	res, err := u.backend.UploadImage(ctx, file, info.Size(), alt, filepath.Base(localPath), func(frac float64) {
		emit(UploadEvent{State: UploadSending, Progress: frac})
	})
	if err != nil {
		return nil, err
	}

	emit(UploadEvent{State: UploadCompleted})

	return &UploadResult{URL: res.URL, ImageID: res.ID}, nil
}

// DirectConfig locates the third-party storage endpoint for direct
// uploads.
type DirectConfig struct {
	// BaseURL is the provider root, e.g. "https://api.cloudinary.com".
	BaseURL string

	// CloudName is the account name on the provider.
	CloudName string

	// PresetName is the unsigned upload preset to use.
	PresetName string
}

const directUploadTimeout = 5 * time.Minute

// DirectUploader posts the file straight to third-party storage as
// multipart/form-data, then registers the resulting URL with the backend
// to obtain an image id.
type DirectUploader struct {
	cfg        DirectConfig
	backend    Backend
	httpClient *http.Client
}

// NewDirectUploader creates the direct-to-storage upload strategy. If
// httpClient is nil a client with a generous upload timeout is used.
func NewDirectUploader(cfg DirectConfig, backend Backend, httpClient *http.Client) *DirectUploader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: directUploadTimeout}
	}

	return &DirectUploader{cfg: cfg, backend: backend, httpClient: httpClient}
}

// endpoint composes the provider upload URL from the configured account.
func (u *DirectUploader) endpoint() string {
	return strings.TrimSuffix(u.cfg.BaseURL, "/") + "/v1_1/" + u.cfg.CloudName + "/auto/upload"
}

// buildForm assembles the multipart body: the file part with an inferred
// Content-Type, then the upload_preset field.
func buildForm(localPath, presetName string) (*bytes.Buffer, string, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading image file: %w", err)
	}

	var body bytes.Buffer

	form := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(localPath)))
	header.Set("Content-Type", mimetype.Detect(content).String())

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := form.WriteField("upload_preset", presetName); err != nil {
		return nil, "", fmt.Errorf("writing preset field: %w", err)
	}

	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("terminating form: %w", err)
	}

	return &body, form.FormDataContentType(), nil
}

// Upload implements Uploader.
func (u *DirectUploader) Upload(ctx context.Context, localPath, alt string, emit func(UploadEvent)) (*UploadResult, error) {
	emit(UploadEvent{State: UploadBuffering})

	body, contentType, err := buildForm(localPath, u.cfg.PresetName)
	if err != nil {
		return nil, err
	}

	size := int64(body.Len())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint(), api.NewProgressReader(body, size, func(frac float64) {
		emit(UploadEvent{State: UploadSending, Progress: frac})
	}))
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}

	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to storage: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("reading storage response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &api.HTTPError{
			StatusCode:  resp.StatusCode,
			Body:        respBody,
			ContentType: resp.Header.Get("Content-Type"),
		}
	}

	if len(respBody) == 0 {
		return nil, errors.ErrNoResponse
	}

	secureURL := gjson.GetBytes(respBody, "secure_url").Str
	if secureURL == "" {
		return nil, fmt.Errorf("storage response missing secure_url: %w", errors.ErrMalformedResponse)
	}

	// The storage provider knows nothing about the backend; one extra
	// call registers the hosted URL and yields the backend image id.
	imageID, err := u.backend.RegisterImage(ctx, secureURL, alt)
	if err != nil {
		return nil, err
	}

	emit(UploadEvent{State: UploadCompleted})

	return &UploadResult{URL: secureURL, ImageID: imageID}, nil
}
