package cursor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"

	"github.com/tidewatch-io/tidewatch/internal/chain"
)

// FileStore persists breadcrumbs to a newline-delimited "slot,hex-hash"
// file, newest first, replaced atomically on every write. A file lock
// guards against two daemon instances racing on the same path.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore builds a FileStore for the given path. An empty path disables
// persistence entirely (InitialLoad returns nil, Persist is a no-op).
func NewFileStore(path string) *FileStore {
	if path == "" {
		return &FileStore{}
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

// Enabled reports whether this store actually persists to disk.
func (s *FileStore) Enabled() bool {
	return s.path != ""
}

// InitialLoad reads the breadcrumb file, if any, returning a newest-first
// point list. A missing file is not an error: it returns (nil, nil).
func (s *FileStore) InitialLoad() ([]chain.Point, error) {
	if !s.Enabled() {
		return nil, nil
	}

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cursor: open %s: %w", s.path, err)
	}
	defer f.Close()

	var points []chain.Point
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := decodeLine(line)
		if err != nil {
			return nil, fmt.Errorf("cursor: %s: %w", s.path, err)
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cursor: read %s: %w", s.path, err)
	}

	return points, nil
}

// Persist atomically rewrites the breadcrumb file with the given
// newest-first points: write to a temp file in the same directory, fsync,
// then rename over the target.
func (s *FileStore) Persist(points []chain.Point) error {
	if !s.Enabled() {
		return nil
	}

	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("cursor: lock %s: %w", s.path, err)
	}
	if !locked {
		return fmt.Errorf("cursor: %s is locked by another process", s.path)
	}
	defer s.lock.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".cursor-*.tmp")
	if err != nil {
		return fmt.Errorf("cursor: create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, p := range points {
		if _, err := fmt.Fprintln(w, encodeLine(p)); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("cursor: write %s: %w", tmpPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cursor: rename %s to %s: %w", tmpPath, s.path, err)
	}
	return nil
}

func encodeLine(p chain.Point) string {
	return fmt.Sprintf("%d,%s", p.Slot, hexNoPrefix(p.Hash))
}

func decodeLine(line string) (chain.Point, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return chain.Point{}, fmt.Errorf("malformed cursor line %q", line)
	}
	slot, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return chain.Point{}, fmt.Errorf("malformed slot in %q: %w", line, err)
	}
	return chain.Point{Slot: slot, Hash: common.HexToHash(parts[1])}, nil
}

func hexNoPrefix(h common.Hash) string {
	s := h.Hex()
	return strings.TrimPrefix(s, "0x")
}
