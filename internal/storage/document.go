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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"holouistudio/internal/domain"
	applog "holouistudio/internal/log"
	"holouistudio/internal/schema"
)

// BackupDirName holds timestamped copies of exported documents, next to the
// exported file.
const BackupDirName = "backups"

// ExportDocument writes a panel document to path. The write is atomic (temp
// file plus rename) and an existing file at path is copied into the backups
// directory first.
func ExportDocument(path string, p domain.Panel) error {
	raw, err := domain.EncodePanel(p)
	if err != nil {
		return err
	}
	if err := backupExisting(path); err != nil {
		return err
	}
	return writeFileAtomic(path, raw)
}

// ImportDocument reads and validates a panel document. Documents failing
// validation are refused; when the validator has no schema loaded the
// document is imported unvalidated, matching the degraded editing mode.
func ImportDocument(path string, v *schema.Validator) (domain.Panel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Panel{}, fmt.Errorf("read document: %w", err)
	}
	return parseValidated(raw, v)
}

// RecoverLatestBackup loads the most recent backup of an exported document,
// used when the primary file turns out corrupt.
func RecoverLatestBackup(path string, v *schema.Validator) (domain.Panel, error) {
	backup, ok := latestBackup(path)
	if !ok {
		return domain.Panel{}, errors.New("no backups available")
	}
	applog.WithComponent("storage").Info("recovering from backup", "backup", backup)
	raw, err := os.ReadFile(backup)
	if err != nil {
		return domain.Panel{}, fmt.Errorf("read backup: %w", err)
	}
	return parseValidated(raw, v)
}

func parseValidated(raw []byte, v *schema.Validator) (domain.Panel, error) {
	if v != nil {
		if err := v.Validate(raw); err != nil && !errors.Is(err, schema.ErrSchemaUnavailable) {
			return domain.Panel{}, err
		}
	}
	return domain.ParsePanel(raw)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func backupExisting(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read existing document: %w", err)
	}

	dir := filepath.Join(filepath.Dir(path), BackupDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	base := filepath.Base(path)
	stamp := time.Now().UTC().Format("20060102T150405.000000000")
	backup := filepath.Join(dir, fmt.Sprintf("%s.%s.bak", base, stamp))
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

func latestBackup(path string) (string, bool) {
	dir := filepath.Join(filepath.Dir(path), BackupDirName)
	pattern := filepath.Join(dir, filepath.Base(path)+".*.bak")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", false
	}
	// the timestamp format sorts lexicographically
	sort.Strings(matches)
	return matches[len(matches)-1], true
}
