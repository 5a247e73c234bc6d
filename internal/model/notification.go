package model

import "time"

// NotificationEvent identifies what happened.
type NotificationEvent string

const (
	// NotificationGroupsChanged signals that a user's group memberships in a
	// course were modified (by themselves or by a privileged actor).
	NotificationGroupsChanged NotificationEvent = "GROUPS_CHANGED"

	// NotificationEnrolledInCourse signals that a user was added to a course.
	NotificationEnrolledInCourse NotificationEvent = "ENROLLED_IN_COURSE"

	// NotificationRemovedFromCourse signals that a user was removed from a course.
	NotificationRemovedFromCourse NotificationEvent = "REMOVED_FROM_COURSE"
)

// Notification is a persisted event addressed to one user.
type Notification struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Event     NotificationEvent `json:"event"`
	CourseID  int64             `json:"course_id"`
	GroupID   *int64            `json:"group_id,omitempty"`
	Payload   string            `json:"payload"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
