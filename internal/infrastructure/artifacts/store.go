// Package artifacts keeps failure evidence such as screenshots on disk.
package artifacts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/infrastructure/logger"
)

var _ output.ArtifactPort = (*Store)(nil)

const (
	MaxWidth    = 1024
	JPEGQuality = 75
)

type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) Dir() string {
	return s.dir
}

// SaveScreenshot writes shot as <dir>/<timestamp>_<label>.jpg, scaled down to MaxWidth.
func (s *Store) SaveScreenshot(label string, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", errors.New("empty screenshot")
	}

	img, err := imaging.Decode(bytes.NewReader(shot.Data))
	if err != nil {
		return "", fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create artifacts dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.jpg", s.now().Format("2006-01-02_15-04-05.000"), logger.Sanitize(label))
	path := filepath.Join(s.dir, name)
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	return path, nil
}
