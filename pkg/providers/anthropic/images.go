package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"mercator-hq/tokenscope/pkg/providers"
)

const (
	// DefaultMaxFileSize is the largest file ConvertFile accepts (20 MiB).
	DefaultMaxFileSize int64 = 20 * 1024 * 1024

	// DefaultFetchTimeout bounds a single FetchImage call.
	DefaultFetchTimeout = 30 * time.Second
)

var (
	errEmptyPayload = errors.New("no base64 payload")
	errNotDataURL   = errors.New("not a data URL")
)

// ImageLoader turns remote URLs and local files into base64 image content.
type ImageLoader struct {
	client       *http.Client
	maxFileSize  int64
	fetchTimeout time.Duration
}

// NewImageLoader creates an image loader. Zero values select the defaults.
func NewImageLoader(client *http.Client, maxFileSize int64, fetchTimeout time.Duration) *ImageLoader {
	if client == nil {
		client = http.DefaultClient
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &ImageLoader{
		client:       client,
		maxFileSize:  maxFileSize,
		fetchTimeout: fetchTimeout,
	}
}

// MaxFileSize returns the size ceiling applied to files and fetched bodies.
func (l *ImageLoader) MaxFileSize() int64 {
	return l.maxFileSize
}

// FetchImage downloads url and returns its body as base64 with the declared
// MIME type. Transport failures, non-2xx statuses and non-image content
// types are reported as KindFetch.
func (l *ImageLoader) FetchImage(ctx context.Context, url string) (providers.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return providers.Image{}, providers.NewFetchError(providers.Anthropic, url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		slog.Warn("image fetch failed", "url", providers.StripQuery(url), "error", err)
		return providers.Image{}, providers.NewFetchError(providers.Anthropic, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return providers.Image{}, providers.NewFetchError(providers.Anthropic, url,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return providers.Image{}, providers.NewFetchTypeError(providers.Anthropic, url, contentType)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, l.maxFileSize+1))
	if err != nil {
		return providers.Image{}, providers.NewFetchError(providers.Anthropic, url, err)
	}
	if int64(len(raw)) > l.maxFileSize {
		return providers.Image{}, providers.NewFetchError(providers.Anthropic, url,
			fmt.Errorf("image exceeds %d bytes", l.maxFileSize))
	}

	slog.Debug("image fetched",
		"url", providers.StripQuery(url),
		"media_type", contentType,
		"bytes", len(raw),
	)

	return providers.Image{
		Data:      base64.StdEncoding.EncodeToString(raw),
		MediaType: baseMediaType(contentType),
	}, nil
}

// ConvertFile validates the declared type and size of file and only then
// reads it. The bytes are rendered as a data URL and the payload after the
// first comma becomes the image data.
func (l *ImageLoader) ConvertFile(file providers.ImageFile) (providers.Image, error) {
	if !strings.HasPrefix(file.Type, "image/") {
		return providers.Image{}, providers.NewFileTypeError(providers.Anthropic, file.Name, file.Type)
	}
	if file.Size > l.maxFileSize {
		return providers.Image{}, providers.NewFileSizeError(providers.Anthropic, file.Name, file.Size, l.maxFileSize)
	}
	if file.Open == nil {
		return providers.Image{}, providers.NewConversionError(providers.Anthropic, file.Name, errors.New("file is not readable"))
	}

	rc, err := file.Open()
	if err != nil {
		return providers.Image{}, providers.NewConversionError(providers.Anthropic, file.Name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, l.maxFileSize+1))
	if err != nil {
		return providers.Image{}, providers.NewConversionError(providers.Anthropic, file.Name, err)
	}
	if int64(len(raw)) > l.maxFileSize {
		return providers.Image{}, providers.NewFileSizeError(providers.Anthropic, file.Name, int64(len(raw)), l.maxFileSize)
	}

	payload, err := PayloadFromDataURL(DataURL(file.Type, raw))
	if err != nil {
		return providers.Image{}, providers.NewConversionError(providers.Anthropic, file.Name, err)
	}

	return providers.Image{
		Data:      payload,
		MediaType: baseMediaType(file.Type),
	}, nil
}

// FileFromPath describes a file on fs as an ImageFile. The declared type is
// sniffed from the file header; the contents are not read until the
// returned file is opened.
func FileFromPath(fs afero.Fs, path string) (providers.ImageFile, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return providers.ImageFile{}, providers.NewConversionError(providers.Anthropic, path, err)
	}
	if info.IsDir() {
		return providers.ImageFile{}, providers.NewConversionError(providers.Anthropic, path, errors.New("is a directory"))
	}

	f, err := fs.Open(path)
	if err != nil {
		return providers.ImageFile{}, providers.NewConversionError(providers.Anthropic, path, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return providers.ImageFile{}, providers.NewConversionError(providers.Anthropic, path, err)
	}

	return providers.ImageFile{
		Name: filepath.Base(path),
		Type: mtype.String(),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return fs.Open(path)
		},
	}, nil
}

// DataURL renders raw as a base64 data URL.
func DataURL(mediaType string, raw []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// PayloadFromDataURL returns the part of a data URL after the first comma.
// An empty payload is an error.
func PayloadFromDataURL(s string) (string, error) {
	if !strings.HasPrefix(s, "data:") {
		return "", errNotDataURL
	}
	_, payload, ok := strings.Cut(s, ",")
	if !ok || payload == "" {
		return "", errEmptyPayload
	}
	return payload, nil
}

// baseMediaType drops parameters such as "; charset=binary".
func baseMediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}
