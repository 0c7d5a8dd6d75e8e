// AngelaMos | 2026
// store.go

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

const jpegQuality = 90

var allowedTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Store keeps product images on local disk. Every upload is fitted inside a
// square canvas with a white background before it is written.
type Store struct {
	dir      string
	prefix   string
	maxBytes int64
	size     int
	logger   *zap.Logger
}

func NewStore(cfg config.MediaConfig, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Store{
		dir:      cfg.UploadDir,
		prefix:   strings.TrimSuffix(cfg.PublicPrefix, "/"),
		maxBytes: cfg.MaxUploadBytes,
		size:     cfg.ImageSize,
		logger:   logger,
	}, nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates, resizes and writes an uploaded image and returns the URL
// it is served under.
func (s *Store) Save(
	ctx context.Context,
	r io.Reader,
	filename string,
) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	wantType, ok := allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf(
			"extension %q not allowed: %w",
			ext,
			core.ErrUploadRejected,
		)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("file too large: %w", core.ErrUploadRejected)
	}

	if mtype := mimetype.Detect(data); !mtype.Is(wantType) {
		return "", fmt.Errorf(
			"content is %s, not %s: %w",
			mtype.String(),
			wantType,
			core.ErrUploadRejected,
		)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", core.ErrUploadRejected)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	canvas := fitContain(src, s.size)

	name := fmt.Sprintf(
		"resized-%d-%s%s",
		time.Now().UnixMilli(),
		uuid.NewString(),
		ext,
	)

	if err := s.write(name, canvas, wantType); err != nil {
		return "", err
	}

	s.logger.Debug("image stored", zap.String("file", name))

	return s.prefix + "/" + name, nil
}

func (s *Store) write(name string, img image.Image, contentType string) error {
	f, err := os.OpenFile(
		filepath.Join(s.dir, name),
		os.O_CREATE|os.O_WRONLY|os.O_EXCL,
		0o640,
	)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}

	var encErr error
	if contentType == "image/png" {
		encErr = png.Encode(f, img)
	} else {
		encErr = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}

	closeErr := f.Close()
	if encErr != nil || closeErr != nil {
		_ = os.Remove(f.Name()) //nolint:errcheck // cleanup of partial file
		return fmt.Errorf("encode image: %w", errors.Join(encErr, closeErr))
	}

	return nil
}

// Delete removes a previously stored image. URLs outside this store and
// files that are already gone are ignored.
func (s *Store) Delete(url string) error {
	if url == "" || !strings.HasPrefix(url, s.prefix+"/") {
		return nil
	}

	name := path.Base(url)
	if name == "." || name == "/" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}

	return nil
}

// Handler serves stored images under the public prefix.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix(s.prefix+"/", http.FileServer(http.Dir(s.dir)))
}

func (s *Store) Prefix() string {
	return s.prefix
}

// fitContain scales src to fit a size x size square, keeping its aspect
// ratio, and centers it on a white background.
func fitContain(src image.Image, size int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return canvas
	}

	dw, dh := size, size
	if w > h {
		dh = max(h*size/w, 1)
	} else {
		dw = max(w*size/h, 1)
	}

	x0 := (size - dw) / 2
	y0 := (size - dh) / 2
	target := image.Rect(x0, y0, x0+dw, y0+dh)

	draw.CatmullRom.Scale(canvas, target, src, b, draw.Over, nil)

	return canvas
}
