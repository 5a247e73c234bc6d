package model

import "time"

// GroupType is a named category of groups within one course (e.g. lab
// sessions). It configures enrollment cardinality and auto-open scheduling.
type GroupType struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
	// Mandatory requires every student to hold at least one group of this type.
	Mandatory bool `json:"mandatory"`
	// Multiple permits a student to hold more than one group of this type.
	Multiple bool `json:"multiple"`
	// OpenTime, when set, makes the scheduler open all groups of this type
	// once the time arrives.
	OpenTime  *time.Time `json:"open_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Group is a concrete enrollable unit within a GroupType.
type Group struct {
	ID          int64  `json:"id"`
	GroupTypeID int64  `json:"group_type_id"`
	Name        string `json:"name"`
	// Capacity is the maximum number of students; nil means unlimited.
	Capacity *int `json:"capacity,omitempty"`
	Open     bool `json:"open"`
	FileZone bool `json:"file_zone"`
	// NumMembers is the current student count, filled on reads.
	NumMembers int       `json:"num_members"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GroupTypeWithGroups is the per-course group listing unit: a type and its
// groups, with membership flags for the requesting user.
type GroupTypeWithGroups struct {
	GroupType
	Groups []GroupWithMembership `json:"groups"`
}

// GroupWithMembership overlays a group with the requesting user's membership.
type GroupWithMembership struct {
	Group
	Enrolled bool `json:"enrolled"`
}

// Enrollment is the membership relation between a user and a group.
type Enrollment struct {
	GroupID    int64     `json:"group_id"`
	UserID     int64     `json:"user_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// GroupMember is one roster row: an enrolled user with account details.
type GroupMember struct {
	GroupID    int64     `json:"group_id"`
	UserID     int64     `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
