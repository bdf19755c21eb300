package rename

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"retitle/internal/logging"
	"retitle/internal/process"
	"retitle/internal/services"
)

const component = "rename"

// Saver persists a process record.
type Saver interface {
	Save(ctx context.Context, p *process.Process) error
}

// Locator resolves the images root of a process.
type Locator interface {
	ImagesDir(p *process.Process) (string, error)
}

// Move records one applied directory rename.
type Move struct {
	From string
	To   string
}

// Result describes what a rename committed.
type Result struct {
	OldTitle  string
	NewTitle  string
	ImagesDir string
	Renamed   []Move
}

// Coordinator applies title changes.
type Coordinator struct {
	store  Saver
	paths  Locator
	logger *slog.Logger
}

// NewCoordinator builds a coordinator. A nil logger discards output.
func NewCoordinator(store Saver, paths Locator, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		paths:  paths,
		logger: logging.NewComponentLogger(logger, component),
	}
}

// Rename sets p's title to newTitle, persists it, and renames every
// immediate child directory of the images root whose name contains the old
// title but not the new one. Each occurrence of the old title in such a name
// is replaced. The returned result lists the renames applied before any
// error.
func (c *Coordinator) Rename(ctx context.Context, p *process.Process, newTitle string) (Result, error) {
	if p == nil {
		return Result{}, services.Wrap(services.ErrValidation, component, "rename", "process is nil", nil)
	}
	logger := logging.WithContext(ctx, c.logger)
	oldTitle := p.Title
	result := Result{OldTitle: oldTitle, NewTitle: newTitle}

	p.Title = newTitle
	if err := c.store.Save(ctx, p); err != nil {
		p.Title = oldTitle
		return result, services.Wrap(services.ErrPersistence, component, "save process", fmt.Sprintf("process %d", p.ID), err)
	}
	logger.Info("process title saved",
		logging.String("old_title", oldTitle),
		logging.String("new_title", newTitle),
		logging.String(logging.FieldEventType, "title_saved"),
	)

	root, err := c.paths.ImagesDir(p)
	if err != nil {
		marker := services.ErrFilesystem
		if errors.Is(err, process.ErrSwappedOut) {
			marker = services.ErrStorageSwap
		}
		return result, services.Wrap(marker, component, "resolve images directory", fmt.Sprintf("process %d", p.ID), err)
	}
	result.ImagesDir = root

	if oldTitle == "" {
		logger.Debug("old title empty; skipping directory reconciliation")
		return result, nil
	}

	names, err := childDirectories(root)
	if err != nil {
		return result, services.Wrap(services.ErrFilesystem, component, "list images directory", root, err)
	}
	for _, name := range names {
		if !strings.Contains(name, oldTitle) || strings.Contains(name, newTitle) {
			continue
		}
		target := strings.ReplaceAll(name, oldTitle, newTitle)
		move := Move{From: filepath.Join(root, name), To: filepath.Join(root, target)}
		if err := renameDir(move); err != nil {
			return result, services.Wrap(services.ErrFilesystem, component, "rename directory", name, err)
		}
		result.Renamed = append(result.Renamed, move)
		logger.Info("directory renamed",
			logging.String("from", name),
			logging.String("to", target),
			logging.String(logging.FieldEventType, "directory_renamed"),
		)
	}
	return result, nil
}

// childDirectories lists the names of the immediate child directories of
// root in lexical order. A missing root has no children. Symlinks to
// directories count as directories.
func childDirectories(root string) ([]string, error) {
	dir, err := os.Open(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	info, err := dir.Stat()
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}
	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		st, err := os.Stat(filepath.Join(root, entry.Name()))
		if err != nil || !st.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

func renameDir(move Move) error {
	if _, err := os.Lstat(move.To); err == nil {
		return fmt.Errorf("%s: %w", move.To, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(move.From, move.To)
}
