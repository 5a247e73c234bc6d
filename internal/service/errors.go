package service

import "errors"

// Business-rule errors surfaced to handlers, which map them to HTTP statuses.
var (
	// ErrNotCourseMember is returned when the acting or target user does not
	// belong to the course being operated on.
	ErrNotCourseMember = errors.New("user does not belong to the course")

	// ErrUnknownGroup is returned when a selected group does not belong to
	// the course.
	ErrUnknownGroup = errors.New("group does not belong to the course")

	// ErrMultipleSingleType is returned when a selection holds more than one
	// group of a type that disallows multiple enrollment. This guard applies
	// to every actor, privileged or not.
	ErrMultipleSingleType = errors.New("more than one group selected for a single-enrollment type")

	// ErrGroupClosed is returned when a student tries to join, or leave, a
	// closed group. A closed group is terminal for student-initiated changes.
	ErrGroupClosed = errors.New("group is closed")

	// ErrGroupFull is returned when a student tries to join a group at
	// capacity.
	ErrGroupFull = errors.New("group has reached its capacity")
)
