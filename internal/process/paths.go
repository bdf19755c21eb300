package process

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrSwappedOut reports a process whose data is not currently on disk.
var ErrSwappedOut = errors.New("process data is swapped out")

const (
	imagesDirName    = "images"
	metadataFileName = "meta.yaml"
)

// Paths resolves the on-disk layout of processes under a metadata root.
type Paths struct {
	MetadataDir string
}

// ProcessDir returns <metadata_dir>/<id>.
func (p Paths) ProcessDir(proc *Process) (string, error) {
	if proc == nil {
		return "", errors.New("process is nil")
	}
	if proc.SwappedOut {
		return "", fmt.Errorf("process %d: %w", proc.ID, ErrSwappedOut)
	}
	root := strings.TrimSpace(p.MetadataDir)
	if root == "" {
		return "", errors.New("metadata directory is not configured")
	}
	return filepath.Join(root, strconv.FormatInt(proc.ID, 10)), nil
}

// ImagesDir returns the directory holding the process's per-asset folders.
func (p Paths) ImagesDir(proc *Process) (string, error) {
	dir, err := p.ProcessDir(proc)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, imagesDirName), nil
}

// MetadataFile returns the location of the process metadata document.
func (p Paths) MetadataFile(proc *Process) (string, error) {
	dir, err := p.ProcessDir(proc)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, metadataFileName), nil
}
