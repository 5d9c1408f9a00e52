/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.docgenset")
	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(target))

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	calls := make(chan string, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.loop(ctx, events, errs, func(p string) { calls <- p })
		close(done)
	}()

	abs, _ := filepath.Abs(target)
	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: abs, Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: filepath.Join(dir, "other.txt"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: abs, Op: fsnotify.Chmod}

	select {
	case p := <-calls:
		assert.Equal(t, abs, p)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case p := <-calls:
		t.Fatalf("burst reported twice: %s", p)
	case <-time.After(200 * time.Millisecond):
	}
	cancel()
	<-done
}

func TestRunReportsFileWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.docgenset")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))

	w, err := New(30 * time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Add(target))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan string, 10)
	go func() { _ = w.Run(ctx, func(p string) { calls <- p }) }()

	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o644))
	select {
	case p := <-calls:
		assert.Equal(t, "doc.docgenset", filepath.Base(p))
	case <-time.After(5 * time.Second):
		t.Fatal("write not reported")
	}
}
