/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package store owns the in-memory panel document and the selection state.
//
// All mutations go through the Store so invariants hold: component ids stay
// unique, failed operations are strict no-ops, and the selection never points
// at a component that no longer exists. The store performs no I/O itself;
// subscribers are notified after every change and handle persistence and
// redraw. Not safe for concurrent use; the UI event loop serializes all
// mutation entry points.
package store

import (
	"fmt"

	"holouistudio/internal/domain"
)

// DuplicateIDError reports a create or rename that would collide with an
// existing component id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("component id %q already exists", e.ID)
}

// NotFoundError reports an operation against a component id that is not in
// the panel.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component id %q not found", e.ID)
}

// Store holds the panel and the at-most-one selected component id.
type Store struct {
	panel     domain.Panel
	selected  string // empty means nothing selected
	listeners []func()
}

// New wraps an initial panel, typically loaded from the workspace or
// domain.DefaultPanel().
func New(p domain.Panel) *Store {
	if p.Components == nil {
		p.Components = []domain.Component{}
	}
	return &Store{panel: p}
}

// Subscribe registers a callback invoked after every successful mutation and
// selection change. Callbacks run synchronously in registration order.
func (s *Store) Subscribe(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

// Panel returns a snapshot of the document. The component slice is copied;
// nested payloads are never mutated in place by the store, so sharing them
// with the renderer is safe.
func (s *Store) Panel() domain.Panel {
	out := s.panel
	out.Components = make([]domain.Component, len(s.panel.Components))
	copy(out.Components, s.panel.Components)
	return out
}

// Component fetches a component by id. Callers driving deferred work (drag
// moves, async form commits) must re-fetch instead of holding a snapshot.
func (s *Store) Component(id string) (domain.Component, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.panel.Components[i], true
	}
	return domain.Component{}, false
}

func (s *Store) indexOf(id string) int {
	for i := range s.panel.Components {
		if s.panel.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// Create appends a component. Fails with DuplicateIDError when the id is
// already taken, leaving the panel untouched.
func (s *Store) Create(c domain.Component) error {
	if s.indexOf(c.ID) >= 0 {
		return &DuplicateIDError{ID: c.ID}
	}
	s.panel.Components = append(s.panel.Components, c.Clone())
	s.notify()
	return nil
}

// Update applies fn to a deep copy of the component and stores the result.
// The id cannot change through Update; use Rename. Fails with NotFoundError
// when the id is absent.
func (s *Store) Update(id string, fn func(domain.Component) domain.Component) error {
	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	updated := fn(s.panel.Components[i].Clone())
	updated.ID = id
	s.panel.Components[i] = updated
	s.notify()
	return nil
}

// Rename changes a component's id. Fails with NotFoundError when oldID is
// absent and with DuplicateIDError when newID belongs to a different
// component. A selection pointing at oldID follows to newID atomically.
func (s *Store) Rename(oldID, newID string) error {
	i := s.indexOf(oldID)
	if i < 0 {
		return &NotFoundError{ID: oldID}
	}
	if j := s.indexOf(newID); j >= 0 && j != i {
		return &DuplicateIDError{ID: newID}
	}
	s.panel.Components[i].ID = newID
	if s.selected == oldID {
		s.selected = newID
	}
	s.notify()
	return nil
}

// Remove deletes a component if present; removing an unknown id is a no-op.
// A selection pointing at the removed id is cleared.
func (s *Store) Remove(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.panel.Components = append(s.panel.Components[:i], s.panel.Components[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.notify()
}

// Reposition replaces only the offset. This runs at pointer-move frequency
// during a drag, so it does no validation beyond the id lookup.
func (s *Store) Reposition(id string, offset domain.Vector3) error {
	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	s.panel.Components[i].Offset = offset
	s.notify()
	return nil
}

// ReplaceAll swaps the whole document, used by import and code-editor
// commit. The selection is cleared when the new panel does not contain the
// previously selected id.
func (s *Store) ReplaceAll(p domain.Panel) {
	if p.Components == nil {
		p.Components = []domain.Component{}
	}
	s.panel = p.Clone()
	if s.selected != "" && s.indexOf(s.selected) < 0 {
		s.selected = ""
	}
	s.notify()
}

// SetOffset replaces the panel-level offset unless the panel is locked.
func (s *Store) SetOffset(offset domain.Vector3) {
	if s.panel.LockPosition {
		return
	}
	s.panel.Offset = offset
	s.notify()
}

// SetLockPosition toggles the panel-level reposition lock.
func (s *Store) SetLockPosition(locked bool) {
	s.panel.LockPosition = locked
	s.notify()
}

// Select points the selection at id. Selecting an id that is not in the
// panel clears the selection instead.
func (s *Store) Select(id string) {
	if id != "" && s.indexOf(id) < 0 {
		id = ""
	}
	if s.selected == id {
		return
	}
	s.selected = id
	s.notify()
}

// ClearSelection drops the current selection.
func (s *Store) ClearSelection() { s.Select("") }

// Selected returns the selected component id, if any.
func (s *Store) Selected() (string, bool) {
	return s.selected, s.selected != ""
}
