package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/openswad/swad-backend/internal/repository"
)

func intPtr(v int) *int { return &v }

// Course fixture: a single-enrollment "Lab" type with groups A(1) and B(2),
// and a multiple-enrollment "Seminar" type with groups C(3) and D(4).
func labSeminarGroups() []repository.CourseGroup {
	return []repository.CourseGroup{
		{ID: 1, TypeID: 10, TypeName: "Lab", Multiple: false, Name: "Lab A", Capacity: intPtr(2), Open: true, Members: 2},
		{ID: 2, TypeID: 10, TypeName: "Lab", Multiple: false, Name: "Lab B", Capacity: intPtr(2), Open: true, Members: 1},
		{ID: 3, TypeID: 20, TypeName: "Seminar", Multiple: true, Name: "Seminar 1", Open: true, Members: 5},
		{ID: 4, TypeID: 20, TypeName: "Seminar", Multiple: true, Name: "Seminar 2", Open: true, Members: 0},
	}
}

func TestNormalizeSelection(t *testing.T) {
	tests := []struct {
		name    string
		desired []int64
		want    []int64
	}{
		{"empty", nil, []int64{}},
		{"drops non-positive sentinels", []int64{-1, 0, 3, -7}, []int64{3}},
		{"collapses duplicates keeping order", []int64{5, 3, 5, 3, 8}, []int64{5, 3, 8}},
		{"already clean", []int64{1, 2}, []int64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeSelection(tt.desired)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeSelection(%v) = %v, want %v", tt.desired, got, tt.want)
			}
		})
	}
}

func TestPlanMembershipRejectsUnknownGroup(t *testing.T) {
	_, err := planMembership(labSeminarGroups(), nil, []int64{99}, false)
	if !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
}

func TestPlanMembershipMultiplicityGuard(t *testing.T) {
	groups := labSeminarGroups()

	// Two Lab groups in one selection must be rejected for every actor.
	for _, enforce := range []bool{true, false} {
		_, err := planMembership(groups, []int64{1, 3}, []int64{1, 2}, enforce)
		if !errors.Is(err, ErrMultipleSingleType) {
			t.Errorf("enforce=%v: expected ErrMultipleSingleType, got %v", enforce, err)
		}
	}

	// Two Seminar groups are fine: the type allows multiple enrollment.
	plan, err := planMembership(groups, nil, []int64{3, 4}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Add, []int64{3, 4}) {
		t.Errorf("Add = %v, want [3 4]", plan.Add)
	}
}

func TestPlanMembershipMultiplicityGuardRunsFirst(t *testing.T) {
	groups := labSeminarGroups()
	groups[0].Open = false // Lab A closed

	// The selection both doubles up on Lab and would drop a closed group;
	// the multiplicity rejection must win.
	_, err := planMembership(groups, []int64{1}, []int64{1, 2}, true)
	if !errors.Is(err, ErrMultipleSingleType) {
		t.Fatalf("expected ErrMultipleSingleType, got %v", err)
	}
}

func TestPlanMembershipClosedGroupBlocksWholePlan(t *testing.T) {
	groups := labSeminarGroups()
	groups[0].Open = false // Lab A closed, student holds it

	// Dropping closed Lab A rejects everything, including the unrelated
	// Seminar change.
	_, err := planMembership(groups, []int64{1, 3}, []int64{4}, true)
	if !errors.Is(err, ErrGroupClosed) {
		t.Fatalf("expected ErrGroupClosed, got %v", err)
	}

	// Joining a closed group is equally rejected.
	groups[0].Open = true
	groups[3].Open = false
	_, err = planMembership(groups, []int64{1}, []int64{1, 4}, true)
	if !errors.Is(err, ErrGroupClosed) {
		t.Fatalf("expected ErrGroupClosed, got %v", err)
	}
}

func TestPlanMembershipCapacity(t *testing.T) {
	groups := labSeminarGroups()

	// Lab A is at capacity (2/2): a student cannot join it.
	_, err := planMembership(groups, nil, []int64{1}, true)
	if !errors.Is(err, ErrGroupFull) {
		t.Fatalf("expected ErrGroupFull, got %v", err)
	}

	// A privileged actor may place the user into a full group.
	plan, err := planMembership(groups, nil, []int64{1}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Add, []int64{1}) {
		t.Errorf("Add = %v, want [1]", plan.Add)
	}

	// A group already held never re-checks capacity.
	plan, err = planMembership(groups, []int64{1}, []int64{1}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.empty() {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestPlanMembershipPrivilegedSkipsOpenChecks(t *testing.T) {
	groups := labSeminarGroups()
	groups[0].Open = false
	groups[1].Open = false

	// Teacher moves the student from closed Lab A into closed, full Lab B.
	plan, err := planMembership(groups, []int64{1}, []int64{2}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Remove, []int64{1}) || !reflect.DeepEqual(plan.Add, []int64{2}) {
		t.Errorf("plan = %+v, want Remove [1], Add [2]", plan)
	}
}

func TestPlanMembershipSwitchLabKeepSeminar(t *testing.T) {
	// Student holds full Lab A and Seminar 1; desires Lab B and Seminar 1.
	plan, err := planMembership(labSeminarGroups(), []int64{1, 3}, []int64{2, 3}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Remove, []int64{1}) {
		t.Errorf("Remove = %v, want [1]", plan.Remove)
	}
	if !reflect.DeepEqual(plan.Add, []int64{2}) {
		t.Errorf("Add = %v, want [2]", plan.Add)
	}
}

func TestPlanMembershipIdempotent(t *testing.T) {
	// A selection equal to the current memberships yields an empty plan,
	// which the service reports as "unchanged".
	plan, err := planMembership(labSeminarGroups(), []int64{2, 3}, []int64{3, 2}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.empty() {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestPlanMembershipEmptySelectionDropsEverything(t *testing.T) {
	plan, err := planMembership(labSeminarGroups(), []int64{2, 3, 4}, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Remove, []int64{2, 3, 4}) || len(plan.Add) != 0 {
		t.Errorf("plan = %+v, want Remove [2 3 4], no Add", plan)
	}
}

func TestPlanMembershipIgnoresVanishedGroups(t *testing.T) {
	// The student still holds group 77, deleted from the course since.
	// The plan neither enforces rules on it nor tries to remove it.
	plan, err := planMembership(labSeminarGroups(), []int64{77, 3}, []int64{3, 4}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Add, []int64{4}) || len(plan.Remove) != 0 {
		t.Errorf("plan = %+v, want Add [4], no Remove", plan)
	}
}

func TestPlanMembershipUnlimitedCapacity(t *testing.T) {
	groups := []repository.CourseGroup{
		{ID: 1, TypeID: 10, TypeName: "Lab", Multiple: false, Name: "Lab A", Capacity: nil, Open: true, Members: 5000},
	}
	plan, err := planMembership(groups, nil, []int64{1}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(plan.Add, []int64{1}) {
		t.Errorf("Add = %v, want [1]", plan.Add)
	}
}
