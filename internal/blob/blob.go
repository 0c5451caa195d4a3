// Package blob stores uploaded logos and resumes and hands back public URLs.
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrForeignURL is returned when a URL was not produced by the store asked to
// delete it.
var ErrForeignURL = errors.New("url does not belong to this blob store")

// File is an upload accepted by the HTTP layer and handed to a Store.
type File struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Store persists blobs and addresses them by opaque URL.
type Store interface {
	// Put uploads body under folder and returns its public URL.
	Put(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error)
	// Delete removes the blob a previous Put returned url for.
	Delete(ctx context.Context, url string) error
}

// KeyResolver turns a stored URL back into a backend object key. Each
// backend's URL convention lives behind this interface.
type KeyResolver interface {
	Key(url string) (string, error)
}

// PrefixResolver resolves URLs of the form BaseURL + "/" + key.
type PrefixResolver struct {
	BaseURL string
}

func (p PrefixResolver) Key(url string) (string, error) {
	key, ok := strings.CutPrefix(url, strings.TrimSuffix(p.BaseURL, "/")+"/")
	if !ok || key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}

// URL is the inverse of Key.
func (p PrefixResolver) URL(key string) string {
	return strings.TrimSuffix(p.BaseURL, "/") + "/" + key
}

// objectKey builds a collision free key under prefix/folder keeping the
// original file extension.
func objectKey(prefix, folder, filename string) string {
	name := uuid.New().String() + strings.ToLower(path.Ext(filename))
	return path.Join(prefix, folder, name)
}
