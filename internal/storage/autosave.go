/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"holouistudio/internal/domain"
)

// AutosaveCrashSnapshot writes the in-memory panel to a timestamped JSON
// file under the workspace backup directory. Called from the crash handler,
// so it avoids the database entirely and only touches the filesystem.
func AutosaveCrashSnapshot(ws *Workspace, p domain.Panel) (string, error) {
	if ws == nil {
		return "", fmt.Errorf("no open workspace")
	}
	raw, err := domain.EncodePanel(p)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(ws.Root(), WorkspaceDirName, BackupDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create autosave dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("autosave-%s.json", stamp))
	if err := writeFileAtomic(path, raw); err != nil {
		return "", err
	}
	return path, nil
}
