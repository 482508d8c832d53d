package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/estateportal/internal/filex"
)

const maxNameAttempts = 100

// LocalStore keeps photos in a directory served under URLPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStore creates dir when missing. Saved files are reachable at
// urlPrefix + "/" + name, e.g. "/uploads/1700000000000-front.jpg".
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error creating upload dir: %w", err)
	}
	return &LocalStore{dir: abs, urlPrefix: urlPrefix, now: time.Now}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := filex.TimestampedName(s.now(), originalName)
	ext := filepath.Ext(base)

	// several photos of one upload may share a millisecond and a name
	for i := 0; i < maxNameAttempts; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), i, ext)
		}

		_, err := filex.WriteNew(s.dir, name, r)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("error saving photo: %w", err)
		}
		return path.Join("/", s.urlPrefix, name), nil
	}

	return "", fmt.Errorf("error saving photo: no free name for %q", base)
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := path.Join("/", s.urlPrefix) + "/"
	name, ok := strings.CutPrefix(ref, prefix)
	if !ok || name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrForeignRef, ref)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error deleting photo: %w", err)
	}
	return nil
}
