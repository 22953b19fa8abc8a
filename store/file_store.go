package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"vacancy-backend/utils"
)

// FileStore keeps the Document in a single JSON file and writes backups as
// sibling files in backupDir.
type FileStore struct {
	path      string
	backupDir string
	now       func() time.Time
}

func NewFileStore(path, backupDir string) *FileStore {
	if backupDir == "" {
		backupDir = filepath.Dir(path)
	}
	return &FileStore{path: path, backupDir: backupDir, now: utils.Now}
}

func (s *FileStore) Name() string { return "file:" + s.path }

// Load returns an empty Document when the file does not exist yet.
// Unreadable records are left out and reported as a *SkippedRecordsError.
func (s *FileStore) Load(_ context.Context) (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}.normalize(), nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return doc.normalize(), fmt.Errorf("parse %s: %w", s.path, err)
	}
	return doc.normalize(), nil
}

func (s *FileStore) Save(_ context.Context, doc Document) error {
	data, err := json.MarshalIndent(doc.normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// Backup never replaces an existing file: when the timestamped name is
// taken, a numeric suffix is added.
func (s *FileStore) Backup(_ context.Context, doc BackupDocument) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	stamp := utils.FileStamp(s.now())
	for attempt := 0; attempt < maxBackupRetries; attempt++ {
		name := backupName(stamp, attempt) + ".json"
		target := filepath.Join(s.backupDir, name)
		if same, _ := samePath(target, s.path); same {
			continue
		}
		err := writeFileExclusive(target, data)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("no free backup name for %s in %s", stamp, s.backupDir)
}

func (s *FileStore) Close() error { return nil }

// writeFileExclusive publishes a fully written temp file under path with a
// hard link, which fails with fs.ErrExist instead of replacing a file.
func writeFileExclusive(path string, data []byte) error {
	tmpName, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)
	if err := os.Link(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fs.ErrExist
		}
		return fmt.Errorf("link into %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it into place, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	tmpName, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmpName)
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// writeTemp writes data to a synced temp file beside path and returns its
// name. The caller removes it.
func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%s %s: %w", step, tmpName, err)
	}

	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", tmpName, err)
	}
	return tmpName, nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
