/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"fmt"
	"testing"
	"time"

	"holouistudio/internal/domain"
)

func panelWith(ids ...string) domain.Panel {
	p := domain.DefaultPanel()
	for _, id := range ids {
		p.Components = append(p.Components, domain.Component{
			ID:   id,
			Data: domain.DecorationData{Icon: domain.TextIcon{Text: id}},
		})
	}
	return p
}

func TestUndoRedoCycle(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Nanosecond})

	v1 := panelWith("a")
	v2 := panelWith("a", "b")

	// record the state before each mutation
	if err := m.Record(v1); err != nil {
		t.Fatalf("record: %v", err)
	}
	time.Sleep(time.Microsecond)

	restored, ok := m.Undo(v2)
	if !ok {
		t.Fatalf("undo failed")
	}
	if len(restored.Components) != 1 || restored.Components[0].ID != "a" {
		t.Fatalf("undo restored wrong state: %+v", restored.Components)
	}

	redone, ok := m.Redo(restored)
	if !ok {
		t.Fatalf("redo failed")
	}
	if len(redone.Components) != 2 {
		t.Fatalf("redo restored wrong state: %+v", redone.Components)
	}
}

func TestUndoOnEmptyStack(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo(panelWith()); ok {
		t.Fatalf("undo on empty stack must fail")
	}
	if _, ok := m.Redo(panelWith()); ok {
		t.Fatalf("redo on empty stack must fail")
	}
}

func TestRecordInvalidatesRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Nanosecond})

	if err := m.Record(panelWith("a")); err != nil {
		t.Fatalf("record: %v", err)
	}
	time.Sleep(time.Microsecond)
	if _, ok := m.Undo(panelWith("a", "b")); !ok {
		t.Fatalf("undo failed")
	}
	if _, redo := m.Depths(); redo != 1 {
		t.Fatalf("expected redo entry after undo")
	}

	if err := m.Record(panelWith("c")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, redo := m.Depths(); redo != 0 {
		t.Fatalf("new record must clear the redo stack")
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Hour})

	// pointer-frequency records collapse into a single entry
	for i := 0; i < 50; i++ {
		if err := m.Record(panelWith(fmt.Sprintf("drag-%d", i))); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if undo, _ := m.Depths(); undo != 1 {
		t.Fatalf("expected 1 coalesced entry, got %d", undo)
	}

	// the coalesced entry holds the latest capture
	restored, ok := m.Undo(panelWith())
	if !ok || restored.Components[0].ID != "drag-49" {
		t.Fatalf("coalesced entry holds stale state: %+v", restored.Components)
	}
}

func TestDepthCap(t *testing.T) {
	m := NewManager(Config{MaxDepth: 3, MinInterval: time.Nanosecond})
	for i := 0; i < 10; i++ {
		if err := m.Record(panelWith(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("record: %v", err)
		}
		time.Sleep(time.Microsecond)
	}
	if undo, _ := m.Depths(); undo != 3 {
		t.Fatalf("expected depth capped at 3, got %d", undo)
	}
}

func TestByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1, MinInterval: time.Nanosecond})
	for i := 0; i < 5; i++ {
		if err := m.Record(panelWith(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("record: %v", err)
		}
		time.Sleep(time.Microsecond)
	}
	// the cap always keeps at least the newest entry
	if undo, _ := m.Depths(); undo != 1 {
		t.Fatalf("expected byte cap to prune to 1 entry, got %d", undo)
	}
	restored, ok := m.Undo(panelWith())
	if !ok || restored.Components[0].ID != "v4" {
		t.Fatalf("byte cap pruned the wrong end: %+v", restored.Components)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Nanosecond})
	_ = m.Record(panelWith("a"))
	m.Clear()
	if undo, redo := m.Depths(); undo != 0 || redo != 0 {
		t.Fatalf("clear left entries: %d/%d", undo, redo)
	}
}
