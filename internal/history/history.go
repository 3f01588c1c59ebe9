/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history provides in-memory undo/redo for the panel document with
// memory safeguards. Drags emit snapshots at pointer frequency, so captures
// within a short window coalesce into one entry.
package history

import (
	"sync"
	"time"

	"holouistudio/internal/domain"
)

type snapshot struct {
	blob []byte
	ts   time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; the oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxDepth limits the number of undo entries (0 means unlimited).
	MaxDepth int
	// MinInterval coalesces snapshots captured within the interval,
	// replacing the previous entry instead of pushing a new one.
	MinInterval time.Duration
}

// Manager keeps undo/redo stacks of serialized panel snapshots. Safe for
// concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex

	undo       []snapshot
	redo       []snapshot
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg}
}

// Record captures the document state Undo will restore, taken before a
// mutation is applied. Recording invalidates the redo stack.
func (m *Manager) Record(p domain.Panel) error {
	blob, err := domain.EncodePanel(p)
	if err != nil {
		return err
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if n := len(m.undo); n > 0 {
		last := m.undo[n-1]
		if now.Sub(last.ts) < m.cfg.MinInterval {
			m.totalBytes += len(blob) - len(last.blob)
			m.undo[n-1] = snapshot{blob: blob, ts: now}
			m.redo = nil
			m.enforceCapsLocked()
			return nil
		}
	}
	m.undo = append(m.undo, snapshot{blob: blob, ts: now})
	m.totalBytes += len(blob)
	m.redo = nil
	m.enforceCapsLocked()
	return nil
}

// Undo returns the most recently recorded state and moves the current state
// onto the redo stack. The second return is false when nothing can be
// undone.
func (m *Manager) Undo(current domain.Panel) (domain.Panel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.undo)
	if n == 0 {
		return domain.Panel{}, false
	}
	top := m.undo[n-1]
	restored, err := domain.ParsePanel(top.blob)
	if err != nil {
		// a snapshot we wrote ourselves failed to parse; drop it
		m.undo = m.undo[:n-1]
		m.totalBytes -= len(top.blob)
		return domain.Panel{}, false
	}

	curBlob, err := domain.EncodePanel(current)
	if err != nil {
		return domain.Panel{}, false
	}
	m.undo = m.undo[:n-1]
	m.totalBytes -= len(top.blob)
	m.redo = append(m.redo, snapshot{blob: curBlob, ts: time.Now()})
	return restored, true
}

// Redo reverses the latest Undo.
func (m *Manager) Redo(current domain.Panel) (domain.Panel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.redo)
	if n == 0 {
		return domain.Panel{}, false
	}
	top := m.redo[n-1]
	restored, err := domain.ParsePanel(top.blob)
	if err != nil {
		m.redo = m.redo[:n-1]
		return domain.Panel{}, false
	}

	curBlob, err := domain.EncodePanel(current)
	if err != nil {
		return domain.Panel{}, false
	}
	m.redo = m.redo[:n-1]
	m.undo = append(m.undo, snapshot{blob: curBlob, ts: time.Now()})
	m.totalBytes += len(curBlob)
	m.enforceCapsLocked()
	return restored, true
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = nil
	m.redo = nil
	m.totalBytes = 0
}

// Depths reports the undo and redo stack depths for diagnostics.
func (m *Manager) Depths() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

func (m *Manager) enforceCapsLocked() {
	for len(m.undo) > 1 && m.totalBytes > m.cfg.MaxBytes {
		m.totalBytes -= len(m.undo[0].blob)
		m.undo = m.undo[1:]
	}
	if m.cfg.MaxDepth > 0 {
		for len(m.undo) > m.cfg.MaxDepth {
			m.totalBytes -= len(m.undo[0].blob)
			m.undo = m.undo[1:]
		}
	}
}
