/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docgen/internal/domain"
	"docgen/internal/storage"
)

type fakeTarget struct{ snap storage.Snapshot }

func (f fakeTarget) Snapshot() storage.Snapshot { return f.snap }

// TestRecoverWritesReportAndSnapshot ensures Recover handles a panic, writes a
// report and a snapshot, and does not terminate the test process.
func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	target := fakeTarget{snap: storage.Snapshot{
		SetPath:  filepath.Join(root, "doc"+domain.SetExtension),
		Title:    "Unsaved",
		Sections: []domain.Section{{Header: "a.txt", HeadingText: "A", Level: 1, Body: "alpha"}},
	}}

	func() {
		defer Recover(target)
		panic("boom")
	}()

	dir := filepath.Join(root, storage.WorkDirName)
	files, _ := os.ReadDir(dir)
	var report string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			report = filepath.Join(dir, f.Name())
		}
	}
	if report == "" {
		t.Fatalf("expected crash report under %s", dir)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}

	snapPath, err := storage.LatestCrashSnapshot(dir)
	if err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
	snap, err := storage.ReadCrashSnapshot(snapPath)
	if err != nil {
		t.Fatalf("snapshot invalid: %v", err)
	}
	if snap.Title != "Unsaved" || len(snap.Sections) != 1 || snap.Sections[0].Body != "alpha" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}

func TestRecoverWithoutPanicDoesNothing(t *testing.T) {
	called := false
	oldExit := exitFn
	exitFn = func(int) { called = true }
	defer func() { exitFn = oldExit }()

	func() {
		defer Recover(nil)
	}()
	if called {
		t.Fatal("exit called without panic")
	}
}
