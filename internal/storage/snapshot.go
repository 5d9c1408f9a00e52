/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"docgen/internal/domain"
)

// SnapshotVersion is the current crash snapshot format version.
const SnapshotVersion = 1

//go:embed snapshot.schema.json
var snapshotSchema []byte

var ErrInvalidSnapshot = errors.New("invalid crash snapshot")

// MainSnapshot captures the preamble block.
type MainSnapshot struct {
	Content string `json:"content"`
	Visible bool   `json:"visible"`
}

// Snapshot is the JSON document written when the process crashes with
// unsaved work. Unlike set files it keeps block kinds and the preamble.
type Snapshot struct {
	Version   int              `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	SetPath   string           `json:"setPath,omitempty"`
	Title     string           `json:"title"`
	Main      *MainSnapshot    `json:"main,omitempty"`
	Sections  []domain.Section `json:"sections"`
}

// Document returns the snapshot content as a document.
func (s Snapshot) Document() domain.Document {
	return domain.Document{Title: s.Title, Sections: append([]domain.Section(nil), s.Sections...)}
}

// AutosaveCrashSnapshot writes snap as crash-<stamp>.json into dir and
// returns the file path.
func AutosaveCrashSnapshot(dir string, snap Snapshot) (string, error) {
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	if snap.Sections == nil {
		snap.Sections = []domain.Section{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash snapshot: %w", err)
	}
	name := fmt.Sprintf("crash-%s.json", snap.CreatedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ValidateSnapshot checks raw JSON against the embedded snapshot schema.
func ValidateSnapshot(data []byte) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}
	return nil
}

// ReadCrashSnapshot loads and validates a crash snapshot.
func ReadCrashSnapshot(path string) (Snapshot, error) {
	data, err := ReadSet(path)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ValidateSnapshot(data); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}

// LatestCrashSnapshot returns the newest crash-*.json in dir.
func LatestCrashSnapshot(dir string) (string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w: %w", dir, ErrIO, err)
	}
	var names []string
	for _, e := range ents {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, "crash-") && strings.HasSuffix(n, ".json") {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("crash snapshot in %s: %w", dir, ErrNotFound)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}
