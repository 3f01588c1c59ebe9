/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"holouistudio/internal/domain"
	"holouistudio/internal/storage"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "HoloUI Studio Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportCreatesFileInWorkspaceBackups(t *testing.T) {
	root := t.TempDir()
	ws, err := storage.Open(root)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	defer ws.Close()

	path, err := writeReport(ws, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	want := filepath.Join(root, storage.WorkspaceDirName, storage.BackupDirName)
	if !strings.Contains(path, want) {
		t.Fatalf("expected crash report under %s, got %s", want, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
}

func TestRecoverWritesAutosaveSnapshot(t *testing.T) {
	root := t.TempDir()
	ws, err := storage.Open(root)
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	defer ws.Close()

	p := domain.DefaultPanel()
	p.Components = []domain.Component{
		{ID: "title", Data: domain.DecorationData{Icon: domain.TextIcon{Text: "Hub"}}},
	}

	exited := -1
	exitFn = func(code int) { exited = code }
	t.Cleanup(func() { exitFn = os.Exit })

	func() {
		defer Recover(ws, func() domain.Panel { return p })
		panic("induced")
	}()

	if exited != 2 {
		t.Fatalf("expected exit code 2, got %d", exited)
	}

	dir := filepath.Join(root, storage.WorkspaceDirName, storage.BackupDirName)
	matches, err := filepath.Glob(filepath.Join(dir, "autosave-*.json"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("expected an autosave snapshot in %s", dir)
	}
	raw, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	got, err := domain.ParsePanel(raw)
	if err != nil {
		t.Fatalf("parse snapshot: %v", err)
	}
	if len(got.Components) != 1 || got.Components[0].ID != "title" {
		t.Fatalf("snapshot lost components: %+v", got)
	}
}
