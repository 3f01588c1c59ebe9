/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package store

import (
	"errors"
	"reflect"
	"testing"

	"holouistudio/internal/domain"
)

func comp(id string) domain.Component {
	return domain.Component{
		ID:   id,
		Data: domain.DecorationData{Icon: domain.TextIcon{Text: id}},
	}
}

func newTestStore(ids ...string) *Store {
	p := domain.DefaultPanel()
	for _, id := range ids {
		p.Components = append(p.Components, comp(id))
	}
	return New(p)
}

func TestCreateDuplicateIDIsNoOp(t *testing.T) {
	s := newTestStore("a", "b")
	before := s.Panel()

	err := s.Create(comp("a"))
	var dup *DuplicateIDError
	if !errors.As(err, &dup) || dup.ID != "a" {
		t.Fatalf("expected DuplicateIDError for a, got %v", err)
	}
	after := s.Panel()
	if !reflect.DeepEqual(before.Components, after.Components) {
		t.Fatalf("failed create changed the component list")
	}
}

func TestCreateAppends(t *testing.T) {
	s := newTestStore("a")
	if err := s.Create(comp("b")); err != nil {
		t.Fatalf("create: %v", err)
	}
	p := s.Panel()
	if len(p.Components) != 2 || p.Components[1].ID != "b" {
		t.Fatalf("unexpected components: %+v", p.Components)
	}
}

func TestUpdateIsImmutableAndKeepsID(t *testing.T) {
	s := newTestStore("a")
	snapshot := s.Panel()

	err := s.Update("a", func(c domain.Component) domain.Component {
		c.ID = "hijacked"
		c.Offset = domain.Vector3{1, 2, 3}
		c.Data = domain.DecorationData{Icon: domain.TextIcon{Text: "changed"}}
		return c
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// snapshot taken before the update must be unchanged
	if snapshot.Components[0].Offset != (domain.Vector3{}) {
		t.Fatalf("update mutated an earlier snapshot")
	}

	got, ok := s.Component("a")
	if !ok {
		t.Fatalf("id must not change through Update")
	}
	if got.Offset != (domain.Vector3{1, 2, 3}) {
		t.Fatalf("update not applied: %+v", got)
	}

	var nf *NotFoundError
	if err := s.Update("missing", func(c domain.Component) domain.Component { return c }); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRenameFollowsSelection(t *testing.T) {
	s := newTestStore("a", "b")
	s.Select("a")

	if err := s.Rename("a", "a2"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if sel, ok := s.Selected(); !ok || sel != "a2" {
		t.Fatalf("selection did not follow rename: %q", sel)
	}

	// renaming a non-selected component leaves selection untouched
	if err := s.Rename("b", "b2"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if sel, _ := s.Selected(); sel != "a2" {
		t.Fatalf("selection moved unexpectedly: %q", sel)
	}
}

func TestRenameDuplicateFails(t *testing.T) {
	s := newTestStore("a", "b")
	var dup *DuplicateIDError
	if err := s.Rename("a", "b"); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	// renaming to itself is allowed
	if err := s.Rename("a", "a"); err != nil {
		t.Fatalf("self-rename must succeed: %v", err)
	}
}

func TestRemoveClearsSelection(t *testing.T) {
	s := newTestStore("a", "b")
	s.Select("a")
	s.Remove("a")
	if _, ok := s.Selected(); ok {
		t.Fatalf("selection must clear when the selected component is removed")
	}
	if _, ok := s.Component("a"); ok {
		t.Fatalf("component still present after remove")
	}
	// idempotent
	s.Remove("a")
	s.Remove("never-existed")
	if len(s.Panel().Components) != 1 {
		t.Fatalf("unexpected component count")
	}
}

func TestRemoveKeepsUnrelatedSelection(t *testing.T) {
	s := newTestStore("a", "b")
	s.Select("b")
	s.Remove("a")
	if sel, ok := s.Selected(); !ok || sel != "b" {
		t.Fatalf("unrelated selection dropped: %q", sel)
	}
}

func TestRepositionChangesOnlyOffset(t *testing.T) {
	s := newTestStore("a")
	if err := s.Reposition("a", domain.Vector3{3, -2, 1}); err != nil {
		t.Fatalf("reposition: %v", err)
	}
	c, _ := s.Component("a")
	if c.Offset != (domain.Vector3{3, -2, 1}) {
		t.Fatalf("offset not applied: %v", c.Offset)
	}
	if c.Data.(domain.DecorationData).Icon.(domain.TextIcon).Text != "a" {
		t.Fatalf("reposition touched the data payload")
	}

	var nf *NotFoundError
	if err := s.Reposition("missing", domain.Vector3{}); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestReplaceAllClearsDanglingSelection(t *testing.T) {
	s := newTestStore("a", "b")
	s.Select("a")

	next := domain.DefaultPanel()
	next.Components = []domain.Component{comp("c")}
	s.ReplaceAll(next)

	if _, ok := s.Selected(); ok {
		t.Fatalf("selection must clear when the new panel lacks the selected id")
	}
	if len(s.Panel().Components) != 1 || s.Panel().Components[0].ID != "c" {
		t.Fatalf("panel not replaced: %+v", s.Panel().Components)
	}
}

func TestReplaceAllKeepsSurvivingSelection(t *testing.T) {
	s := newTestStore("a")
	s.Select("a")

	next := domain.DefaultPanel()
	next.Components = []domain.Component{comp("a"), comp("b")}
	s.ReplaceAll(next)

	if sel, ok := s.Selected(); !ok || sel != "a" {
		t.Fatalf("surviving selection dropped: %q", sel)
	}
}

func TestSelectUnknownClears(t *testing.T) {
	s := newTestStore("a")
	s.Select("a")
	s.Select("ghost")
	if _, ok := s.Selected(); ok {
		t.Fatalf("selecting an unknown id must clear the selection")
	}
}

func TestSubscribersNotifiedPerMutation(t *testing.T) {
	s := newTestStore()
	var calls int
	s.Subscribe(func() { calls++ })

	if err := s.Create(comp("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	s.Select("a")
	if err := s.Reposition("a", domain.Vector3{1, 0, 0}); err != nil {
		t.Fatalf("reposition: %v", err)
	}
	s.Remove("a") // also clears selection, one notification
	if calls != 4 {
		t.Fatalf("expected 4 notifications, got %d", calls)
	}

	// failed mutations must not notify
	before := calls
	_ = s.Create(domain.Component{ID: "x", Data: domain.DecorationData{}})
	_ = s.Create(domain.Component{ID: "x", Data: domain.DecorationData{}}) // duplicate
	_ = s.Reposition("missing", domain.Vector3{})
	if calls != before+1 {
		t.Fatalf("failed mutations notified subscribers: %d vs %d", calls, before+1)
	}
}

func TestLockPositionBlocksPanelOffset(t *testing.T) {
	s := New(domain.DefaultPanel())
	s.SetLockPosition(true)
	s.SetOffset(domain.Vector3{5, 5, 0})
	if s.Panel().Offset != (domain.Vector3{}) {
		t.Fatalf("locked panel accepted an offset change")
	}
	s.SetLockPosition(false)
	s.SetOffset(domain.Vector3{5, 5, 0})
	if s.Panel().Offset != (domain.Vector3{5, 5, 0}) {
		t.Fatalf("unlocked panel rejected an offset change")
	}
}
