package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionHierarchyRead allows viewing institutions, centres and degrees.
	PermissionHierarchyRead Permission = "hierarchy:read"

	// PermissionHierarchyWrite allows creating, updating and deleting
	// institutions, centres and degrees.
	PermissionHierarchyWrite Permission = "hierarchy:write"

	// PermissionCoursesRead allows viewing course lists and details.
	PermissionCoursesRead Permission = "courses:read"

	// PermissionCoursesWrite allows creating, updating and deleting courses.
	PermissionCoursesWrite Permission = "courses:write"

	// PermissionCourseUsersWrite allows enrolling and removing course members.
	PermissionCourseUsersWrite Permission = "course_users:write"

	// PermissionGroupsRead allows viewing group types, groups and rosters.
	PermissionGroupsRead Permission = "groups:read"

	// PermissionGroupsWrite allows managing group types and groups
	// (create, rename, capacity, open/close, delete).
	PermissionGroupsWrite Permission = "groups:write"

	// PermissionEnrollmentManage allows changing another user's group
	// memberships without open/capacity checks.
	PermissionEnrollmentManage Permission = "enrollment:manage"

	// PermissionUsersWrite allows creating and updating platform accounts.
	PermissionUsersWrite Permission = "users:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionHierarchyRead,
	PermissionHierarchyWrite,
	PermissionCoursesRead,
	PermissionCoursesWrite,
	PermissionCourseUsersWrite,
	PermissionGroupsRead,
	PermissionGroupsWrite,
	PermissionEnrollmentManage,
	PermissionUsersWrite,
}

// RolePermissions maps each platform role to its fixed permission set.
// Teachers additionally face course-membership checks in the services:
// holding groups:write only grants access to courses they teach.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: AllPermissions,
	RoleTeacher: {
		PermissionHierarchyRead,
		PermissionCoursesRead,
		PermissionGroupsRead,
		PermissionGroupsWrite,
		PermissionEnrollmentManage,
	},
	RoleStudent: {
		PermissionHierarchyRead,
		PermissionCoursesRead,
		PermissionGroupsRead,
	},
}

// PermissionCodes converts a role's permissions to plain strings for JWT claims.
func PermissionCodes(role Role) []string {
	perms := RolePermissions[role]
	codes := make([]string, len(perms))
	for i, p := range perms {
		codes[i] = string(p)
	}
	return codes
}
