// Package photos stores uploaded listing photos and returns the public path
// pages use to display them.
package photos

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

type Store interface {
	// Save writes r under a new unique name derived from originalName and
	// returns its public path or URL.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)

	// Delete removes a photo previously returned by Save. Deleting a photo
	// that is already gone is not an error.
	Delete(ctx context.Context, ref string) error
}

// ErrForeignRef is returned by Delete for a path or URL the store did not
// produce.
var ErrForeignRef = errors.New("photo does not belong to this store")

// IsImage reports whether an upload's declared content type is an image.
// When no type was sent the file extension decides.
func IsImage(contentType, filename string) bool {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
