package service

import (
	"sort"

	"github.com/openswad/swad-backend/internal/repository"
)

// membershipPlan is the diff between a user's current and desired group
// memberships within one course.
type membershipPlan struct {
	Remove []int64
	Add    []int64
}

func (p membershipPlan) empty() bool {
	return len(p.Remove) == 0 && len(p.Add) == 0
}

// normalizeSelection drops non-positive group codes (the "no group of this
// type" sentinel) and collapses duplicates, preserving order.
func normalizeSelection(desired []int64) []int64 {
	seen := make(map[int64]bool, len(desired))
	out := make([]int64, 0, len(desired))
	for _, id := range desired {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// planMembership validates a desired selection against the course's locked
// group rows and computes the removals and additions that would make the
// user's memberships equal the selection. It mutates nothing.
//
// The multiplicity guard runs first and unconditionally: no selection may
// hold two groups of a single-enrollment type. When enforceRules is set
// (a student acting on themselves) the per-group rules also apply: a held
// group may only be dropped while it is open, and a new group may only be
// joined while it is open and under capacity. Any violation rejects the
// whole plan.
func planMembership(groups []repository.CourseGroup, current, desired []int64, enforceRules bool) (membershipPlan, error) {
	byID := make(map[int64]*repository.CourseGroup, len(groups))
	for i := range groups {
		byID[groups[i].ID] = &groups[i]
	}

	for _, id := range desired {
		if byID[id] == nil {
			return membershipPlan{}, ErrUnknownGroup
		}
	}

	// Multiplicity guard before any other check.
	perType := make(map[int64]int)
	for _, id := range desired {
		g := byID[id]
		if g.Multiple {
			continue
		}
		perType[g.TypeID]++
		if perType[g.TypeID] > 1 {
			return membershipPlan{}, ErrMultipleSingleType
		}
	}

	currentSet := make(map[int64]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[int64]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	var plan membershipPlan
	for _, id := range current {
		if desiredSet[id] {
			continue
		}
		g := byID[id]
		if g == nil {
			// Membership in a group already deleted from the course; nothing
			// to enforce, nothing to remove.
			continue
		}
		if enforceRules && !g.Open {
			return membershipPlan{}, ErrGroupClosed
		}
		plan.Remove = append(plan.Remove, id)
	}

	for _, id := range desired {
		if currentSet[id] {
			continue
		}
		g := byID[id]
		if enforceRules {
			if !g.Open {
				return membershipPlan{}, ErrGroupClosed
			}
			if g.Capacity != nil && g.Members >= *g.Capacity {
				return membershipPlan{}, ErrGroupFull
			}
		}
		plan.Add = append(plan.Add, id)
	}

	sort.Slice(plan.Remove, func(i, j int) bool { return plan.Remove[i] < plan.Remove[j] })
	sort.Slice(plan.Add, func(i, j int) bool { return plan.Add[i] < plan.Add[j] })
	return plan, nil
}
