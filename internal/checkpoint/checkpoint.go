// Package checkpoint persists a manifest of in-progress repository mutations
// so that an interrupted bootstrap can be rolled back, either by the same run
// (failure) or by the next invocation (crash recovery).
//
// The manifest is an append-only JSON document at the repository root. Each
// file mutation is backed up before it happens and the manifest is flushed
// atomically after every new record, so a crash at any point leaves a
// replayable trail.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pytemplate/bootstrap/internal/errors"
	"github.com/pytemplate/bootstrap/internal/fs"
)

// Repository-relative locations of the durable checkpoint state.
const (
	StateFileName = ".bootstrap-state.json"
	BackupDirName = ".bootstrap-state-backups"
)

// FileEntry records one modified file and the backup holding its original
// content. Paths are repo-relative and slash-separated.
type FileEntry struct {
	Path   string `json:"path"`
	Backup string `json:"backup"`
}

// RenameEntry records one directory rename. Paths are repo-relative and
// slash-separated.
type RenameEntry struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Manifest is the durable checkpoint document.
type Manifest struct {
	Files   []FileEntry   `json:"files"`
	Renames []RenameEntry `json:"renames"`
}

// Log tracks the current run's mutations. It keeps original file contents in
// memory for same-run rollback and mirrors every record into the durable
// manifest for crash recovery.
type Log struct {
	fs   fs.FS
	root string // repo root, absolute

	manifest Manifest
	original map[string][]byte // rel path -> pre-mutation content
	order    []string          // rel paths in record order
}

// NewLog creates an empty Log rooted at the repository root.
func NewLog(fsys fs.FS, root string) *Log {
	return &Log{
		fs:   fsys,
		root: root,
		manifest: Manifest{
			Files:   []FileEntry{},
			Renames: []RenameEntry{},
		},
		original: make(map[string][]byte),
	}
}

// StatePath returns the absolute path of the manifest file.
func (l *Log) StatePath() string {
	return filepath.Join(l.root, StateFileName)
}

// BackupDir returns the absolute path of the backup directory.
func (l *Log) BackupDir() string {
	return filepath.Join(l.root, BackupDirName)
}

// Empty reports whether nothing has been recorded yet.
func (l *Log) Empty() bool {
	return len(l.manifest.Files) == 0 && len(l.manifest.Renames) == 0
}

// RecordFile backs up the file's original content the first time the path is
// touched. Repeated calls for the same path are no-ops, as are calls for
// missing or non-regular files. The manifest is flushed after each new record.
func (l *Log) RecordFile(path string) error {
	rel, err := l.relPath(path)
	if err != nil {
		return err
	}
	if _, ok := l.original[rel]; ok {
		return nil
	}

	info, err := l.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	content, err := l.fs.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.EPersistFailed, "failed to read file for backup", err)
	}

	backupRel := filepath.ToSlash(filepath.Join(BackupDirName, fmt.Sprintf("%04d.txt", len(l.manifest.Files))))
	if err := l.fs.MkdirAll(l.BackupDir(), 0755); err != nil {
		return errors.Wrap(errors.EPersistFailed, "failed to create backup directory", err)
	}
	if err := l.fs.WriteFile(filepath.Join(l.root, filepath.FromSlash(backupRel)), content, 0644); err != nil {
		return errors.Wrap(errors.EPersistFailed, "failed to write backup file", err)
	}

	l.original[rel] = content
	l.order = append(l.order, rel)
	l.manifest.Files = append(l.manifest.Files, FileEntry{Path: rel, Backup: backupRel})

	return l.flush()
}

// RecordRename records a directory rename that has already been performed.
// The manifest is flushed immediately.
func (l *Log) RecordRename(oldPath, newPath string) error {
	oldRel, err := l.relPath(oldPath)
	if err != nil {
		return err
	}
	newRel, err := l.relPath(newPath)
	if err != nil {
		return err
	}

	l.manifest.Renames = append(l.manifest.Renames, RenameEntry{Old: oldRel, New: newRel})
	return l.flush()
}

// RollbackStats reports what a rollback or recovery restored.
type RollbackStats struct {
	FilesRestored   int
	RenamesReverted int
}

// Rollback restores the working tree to its pre-mutation state: renames are
// reversed last-in-first-out, then every recorded file gets its original
// content back. Individual restore failures are tolerated; restoration
// continues best-effort across the remaining entries. The checkpoint is
// cleared afterwards.
func (l *Log) Rollback() RollbackStats {
	var stats RollbackStats

	if l.Empty() {
		l.Cleanup()
		return stats
	}

	for i := len(l.manifest.Renames) - 1; i >= 0; i-- {
		entry := l.manifest.Renames[i]
		oldPath := filepath.Join(l.root, filepath.FromSlash(entry.Old))
		newPath := filepath.Join(l.root, filepath.FromSlash(entry.New))
		if !l.exists(newPath) || l.exists(oldPath) {
			continue
		}
		if err := l.fs.Rename(newPath, oldPath); err == nil {
			stats.RenamesReverted++
		}
	}

	for _, rel := range l.order {
		path := filepath.Join(l.root, filepath.FromSlash(rel))
		if err := l.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			continue
		}
		if err := l.fs.WriteFile(path, l.original[rel], 0644); err != nil {
			continue
		}
		stats.FilesRestored++
	}

	l.Cleanup()
	return stats
}

// Cleanup removes the manifest file and the backup directory, best-effort.
func (l *Log) Cleanup() {
	l.fs.Remove(l.StatePath())
	l.fs.RemoveAll(l.BackupDir())
}

// flush writes the manifest atomically to durable storage.
func (l *Log) flush() error {
	data, err := json.MarshalIndent(l.manifest, "", "  ")
	if err != nil {
		return errors.Wrap(errors.EPersistFailed, "failed to encode checkpoint manifest", err)
	}
	data = append(data, '\n')

	if err := fs.WriteFileAtomic(l.fs, l.StatePath(), data, 0644); err != nil {
		return errors.Wrap(errors.EPersistFailed, "failed to write checkpoint manifest", err)
	}
	return nil
}

func (l *Log) relPath(path string) (string, error) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return "", errors.Wrap(errors.EInternal, "path is outside the repository root", err)
	}
	return filepath.ToSlash(rel), nil
}

func (l *Log) exists(path string) bool {
	_, err := l.fs.Stat(path)
	return err == nil
}

// RecoverResult reports what a crash recovery found and restored.
type RecoverResult struct {
	Found bool
	Stats RollbackStats
}

// Recover replays a manifest left behind by an interrupted prior run: renames
// newest-first (only where the new path exists and the old does not), then
// file restores from their on-disk backups. Entries whose backup is missing
// are skipped. The checkpoint is cleared afterwards.
//
// Returns E_CHECKPOINT_CORRUPT if a manifest exists but cannot be parsed;
// losing the replayable trail is worse than stopping.
func Recover(fsys fs.FS, root string) (RecoverResult, error) {
	statePath := filepath.Join(root, StateFileName)

	data, err := fsys.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return RecoverResult{}, nil
		}
		return RecoverResult{}, errors.Wrap(errors.ECheckpointCorrupt, "failed to read checkpoint manifest", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return RecoverResult{}, errors.Wrap(errors.ECheckpointCorrupt, "checkpoint manifest is not valid JSON", err)
	}

	result := RecoverResult{Found: true}

	for i := len(manifest.Renames) - 1; i >= 0; i-- {
		entry := manifest.Renames[i]
		oldPath := filepath.Join(root, filepath.FromSlash(entry.Old))
		newPath := filepath.Join(root, filepath.FromSlash(entry.New))
		if _, err := fsys.Stat(newPath); err != nil {
			continue
		}
		if _, err := fsys.Stat(oldPath); err == nil {
			continue
		}
		if err := fsys.Rename(newPath, oldPath); err == nil {
			result.Stats.RenamesReverted++
		}
	}

	for _, entry := range manifest.Files {
		backupPath := filepath.Join(root, filepath.FromSlash(entry.Backup))
		content, err := fsys.ReadFile(backupPath)
		if err != nil {
			continue
		}
		targetPath := filepath.Join(root, filepath.FromSlash(entry.Path))
		if err := fsys.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			continue
		}
		if err := fsys.WriteFile(targetPath, content, 0644); err != nil {
			continue
		}
		result.Stats.FilesRestored++
	}

	fsys.Remove(statePath)
	fsys.RemoveAll(filepath.Join(root, BackupDirName))

	return result, nil
}
