// Package api implements the typed HTTP client for the content backend.
// Wire formats follow the backend's REST surface: posts under /update,
// gallery items under /gallery, image hosting under /image.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/zhufucdev/control-sync/internal/errors"
)

const (
	// maxRedirects is the maximum number of HTTP redirects to follow
	// before giving up, matching the default net/http limit.
	maxRedirects = 10

	// httpClientTimeout is the timeout for the default HTTP client used
	// when no custom client is provided.
	httpClientTimeout = 30 * time.Second

	// maxAPIResponseBytes caps response body reads to prevent a
	// misbehaving server from consuming unbounded memory.
	maxAPIResponseBytes = 1024 * 1024

	// authHeader carries the post-author secret on every request.
	authHeader = "X-Post-Auth-Key"
)

// Client talks to the content backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
	origin     string
}

// sameHostRedirectPolicy follows redirects only when the target host
// matches the original request host. This prevents the auth key or
// Origin header from leaking to third-party domains.
func sameHostRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return stderrors.New("stopped after 10 redirects")
	}

	if len(via) > 0 {
		origHost := via[0].URL.Host
		if req.URL.Host != origHost {
			return fmt.Errorf("redirect to different host blocked: %s -> %s", origHost, req.URL.Host)
		}
	}

	return nil
}

// NewClient creates a backend client rooted at baseURL (e.g.
// "https://zhufucdev.com/api") authenticating with authKey. If
// httpClient is nil, a client with a 30-second timeout and same-host
// redirect policy is created.
func NewClient(baseURL, authKey string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:       httpClientTimeout,
			CheckRedirect: sameHostRedirectPolicy,
		}
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		authKey:    authKey,
		origin:     u.Scheme + "://" + u.Host,
	}, nil
}

// mutating reports whether the method changes server state. The backend
// requires an Origin header on these, mirroring browser requests.
func mutating(method string) bool {
	switch method {
	case http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return true
	}

	return false
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set(authHeader, c.authKey)
	if mutating(method) {
		req.Header.Set("Origin", c.origin)
	}

	return req, nil
}

// checkStatus turns a non-2xx response into an *HTTPError carrying the
// status, capped body, and MIME type.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	return &HTTPError{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}
}

// call sends a JSON request and decodes the response into result. Either
// body or result may be nil.
func (c *Client) call(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	if result == nil {
		return nil
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, errors.ErrMalformedResponse)
	}

	return nil
}

// ListPosts returns the full remote post collection.
func (c *Client) ListPosts(ctx context.Context) ([]PostPayload, error) {
	var posts []PostPayload
	if err := c.call(ctx, http.MethodGet, "/update/list", nil, &posts); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return posts, nil
}

// GetPost returns a single post by id.
func (c *Client) GetPost(ctx context.Context, id int64) (*PostPayload, error) {
	var post PostPayload
	if err := c.call(ctx, http.MethodGet, "/update/"+strconv.FormatInt(id, 10), nil, &post); err != nil {
		return nil, fmt.Errorf("getting post %d: %w", id, err)
	}

	return &post, nil
}

// CreatePost creates a post and returns the server-assigned id.
func (c *Client) CreatePost(ctx context.Context, req PostCreateRequest) (int64, error) {
	var resp idResponse
	if err := c.call(ctx, http.MethodPut, "/update", req, &resp); err != nil {
		return 0, fmt.Errorf("creating post: %w", err)
	}

	return resp.ID, nil
}

// PatchPost applies a partial update, including the trashed flag, to a
// post by id.
func (c *Client) PatchPost(ctx context.Context, id int64, req PostPatchRequest) error {
	if err := c.call(ctx, http.MethodPatch, "/update/"+strconv.FormatInt(id, 10), req, nil); err != nil {
		return fmt.Errorf("updating post %d: %w", id, err)
	}

	return nil
}

// DeletePost removes a post by id.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, "/update/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}

	return nil
}

// ListGallery returns the full remote gallery collection.
func (c *Client) ListGallery(ctx context.Context) ([]GalleryPayload, error) {
	var items []GalleryPayload
	if err := c.call(ctx, http.MethodGet, "/gallery/list", nil, &items); err != nil {
		return nil, fmt.Errorf("listing gallery: %w", err)
	}

	return items, nil
}

// CreateGalleryItem creates a gallery item and returns the
// server-assigned id.
func (c *Client) CreateGalleryItem(ctx context.Context, req GalleryCreateRequest) (int64, error) {
	var resp idResponse
	if err := c.call(ctx, http.MethodPut, "/gallery", req, &resp); err != nil {
		return 0, fmt.Errorf("creating gallery item: %w", err)
	}

	return resp.ID, nil
}

// PatchGalleryItem applies a partial update, including the trashed flag,
// to a gallery item by id.
func (c *Client) PatchGalleryItem(ctx context.Context, id int64, req GalleryPatchRequest) error {
	if err := c.call(ctx, http.MethodPatch, "/gallery/"+strconv.FormatInt(id, 10), req, nil); err != nil {
		return fmt.Errorf("updating gallery item %d: %w", id, err)
	}

	return nil
}

// DeleteGalleryItem removes a gallery item by id.
func (c *Client) DeleteGalleryItem(ctx context.Context, id int64) error {
	if err := c.call(ctx, http.MethodDelete, "/gallery/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("deleting gallery item %d: %w", id, err)
	}

	return nil
}

// UploadImage streams an image through the backend's hosting proxy. Alt
// text and filename travel as percent-encoded headers; progress reports
// the fraction of size sent as the body is consumed.
func (c *Client) UploadImage(ctx context.Context, r io.Reader, size int64, alt, filename string, progress func(float64)) (*ImageResource, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/image", NewProgressReader(r, size, progress))
	if err != nil {
		return nil, err
	}

	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Alt-Text", url.QueryEscape(alt))
	req.Header.Set("X-File-Name", url.QueryEscape(filename))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading image upload response: %w", err)
	}

	var res ImageResource
	if err := json.Unmarshal(respBody, &res); err != nil || res.URL == "" {
		return nil, fmt.Errorf("decoding image upload response: %w", errors.ErrMalformedResponse)
	}

	return &res, nil
}

// RegisterImage tells the backend about an image uploaded elsewhere,
// returning the backend-local image id.
func (c *Client) RegisterImage(ctx context.Context, imageURL, alt string) (int64, error) {
	var resp idResponse
	if err := c.call(ctx, http.MethodPut, "/image", ImageRegisterRequest{URL: imageURL, Alt: alt}, &resp); err != nil {
		return 0, fmt.Errorf("registering image: %w", err)
	}

	return resp.ID, nil
}

// Template fetches the post-rendering template, an opaque markup string
// consumed by preview surfaces.
func (c *Client) Template(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/template", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching template: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("fetching template: %w", err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}

	return string(body), nil
}
