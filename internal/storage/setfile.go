/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// WorkDirName holds backups, crash artefacts and the index next to the set files.
	WorkDirName    = ".docgen"
	BackupsDirName = "backups"

	backupStamp = "20060102-150405.000"
)

var (
	ErrNotFound = errors.New("not found")
	ErrIO       = errors.New("i/o error")
	ErrWrite    = errors.New("write error")
)

// WorkDir returns the .docgen directory that belongs to the given set file.
func WorkDir(setPath string) string {
	return filepath.Join(filepath.Dir(setPath), WorkDirName)
}

// BackupsDir returns the backup directory for the given set file.
func BackupsDir(setPath string) string {
	return filepath.Join(WorkDir(setPath), BackupsDirName)
}

// WriteOptions controls WriteSet.
type WriteOptions struct {
	KeepBackups bool
	MaxBackups  int // 0 keeps all
}

// ReadSet reads a set file. Missing files wrap ErrNotFound, anything else ErrIO.
func ReadSet(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	return nil, fmt.Errorf("read %s: %w: %w", path, ErrIO, err)
}

// WriteSet replaces path with data. With KeepBackups the previous file is
// copied to a timestamped backup first. Failures wrap ErrWrite.
func WriteSet(path string, data []byte, opt WriteOptions) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", ErrWrite)
	}
	if opt.KeepBackups {
		if _, err := os.Stat(path); err == nil {
			bdir := BackupsDir(path)
			bname := fmt.Sprintf("%s.%s.bak", filepath.Base(path), time.Now().Format(backupStamp))
			if err := copyFile(path, filepath.Join(bdir, bname)); err != nil {
				return fmt.Errorf("backup current set: %w: %w", ErrWrite, err)
			}
			if opt.MaxBackups > 0 {
				pruneBackups(path, opt.MaxBackups)
			}
		}
	}
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic writes data to a temp file in the target directory, syncs it
// and renames it over path. A new file gets mode 0644; an existing one keeps
// its permissions. Failures wrap ErrWrite.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir %s: %w: %w", dir, ErrWrite, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w: %w", path, ErrWrite, err)
	}
	tmpName := tmp.Name()
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp for %s: %w: %w", path, ErrWrite, err)
	}
	if err := writeSync(tmp, data); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w: %w", path, ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w: %w", path, ErrWrite, err)
	}
	return nil
}

// writeSync writes, flushes to disk and closes f.
func writeSync(f *os.File, data []byte) (err error) {
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sf.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// ListBackups returns the backups of setPath, oldest first.
func ListBackups(setPath string) ([]string, error) {
	bdir := BackupsDir(setPath)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	prefix := filepath.Base(setPath) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(bdir, name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

// LatestBackup returns the newest backup of setPath.
func LatestBackup(setPath string) (string, error) {
	all, err := ListBackups(setPath)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "", fmt.Errorf("backup of %s: %w", filepath.Base(setPath), ErrNotFound)
	}
	return all[len(all)-1], nil
}

func pruneBackups(setPath string, keep int) {
	all, err := ListBackups(setPath)
	if err != nil || len(all) <= keep {
		return
	}
	for _, p := range all[:len(all)-keep] {
		_ = os.Remove(p)
	}
}
