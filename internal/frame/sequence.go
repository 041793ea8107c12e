package frame

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/tiff"
)

// SupportedFormats returns the image extensions a Sequence replays.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if a file has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range SupportedFormats() {
		if ext == f {
			return true
		}
	}
	return false
}

// Sequence replays a directory of recorded frames in file name order.
type Sequence struct {
	paths []string
	next  int
	// Loop restarts from the first frame once the sequence is exhausted.
	Loop bool
}

// OpenSequence lists the frames in dir.
func OpenSequence(dir string) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFormat(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames found in %s", dir)
	}
	sort.Strings(paths)
	return &Sequence{paths: paths}, nil
}

// Len returns the number of frames in the sequence.
func (s *Sequence) Len() int {
	return len(s.paths)
}

// Read decodes the next frame.
func (s *Sequence) Read() (gocv.Mat, error) {
	if s.next >= len(s.paths) {
		if !s.Loop {
			return gocv.Mat{}, fmt.Errorf("%w: sequence exhausted after %d frames", ErrReadFailed, len(s.paths))
		}
		s.next = 0
	}
	path := s.paths[s.next]
	s.next++

	img, err := LoadImage(path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
	}
	return m, nil
}

// Close is a no-op; frames are opened per read.
func (s *Sequence) Close() error {
	return nil
}

// LoadImage decodes a PNG, JPEG or TIFF file.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
