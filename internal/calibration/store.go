package calibration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dart-scorer/internal/monitoring"
	"dart-scorer/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// ErrMissing is returned when a camera has no stored calibration matrix.
var ErrMissing = errors.New("calibration matrix missing")

// Store persists calibration matrices as one file per camera.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the matrix file of a camera.
func (s *Store) Path(camera int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("perspective_matrix_camera_%d.bin", camera))
}

// Save writes the camera's matrix. The file is replaced atomically so a
// failed write leaves the previous matrix in place.
func (s *Store) Save(camera int, h geometry.Homography) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create calibration directory: %w", err)
	}

	m := mat.NewDense(3, 3, h[:])
	data, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode matrix for camera %d: %w", camera, err)
	}

	path := s.Path(camera)
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	monitoring.Logf("calibration: saved camera %d matrix to %s", camera, path)
	return nil
}

// Load reads the camera's matrix.
func (s *Store) Load(camera int) (geometry.Homography, error) {
	path := s.Path(camera)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return geometry.Homography{}, fmt.Errorf("%w: camera %d (%s)", ErrMissing, camera, path)
	}
	if err != nil {
		return geometry.Homography{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m mat.Dense
	if err := m.UnmarshalBinary(data); err != nil {
		return geometry.Homography{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if r, c := m.Dims(); r != 3 || c != 3 {
		return geometry.Homography{}, fmt.Errorf("%s holds a %dx%d matrix, want 3x3", path, r, c)
	}

	var h geometry.Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i*3+j] = m.At(i, j)
		}
	}
	if _, ok := h.Inverse(); !ok {
		return geometry.Homography{}, fmt.Errorf("%w: stored matrix for camera %d is singular", ErrDegenerate, camera)
	}
	return h, nil
}

// LoadSet reads the matrices of cameras 0..n-1. Every camera must be
// calibrated.
func (s *Store) LoadSet(n int) (MatrixSet, error) {
	matrices := make([]geometry.Homography, n)
	for i := 0; i < n; i++ {
		h, err := s.Load(i)
		if err != nil {
			return MatrixSet{}, err
		}
		matrices[i] = h
	}
	return NewMatrixSet(matrices...), nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
