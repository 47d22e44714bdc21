package constants

import "fmt"

// Role values stored in users.role
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// Consortium member roles
const (
	ConsortiumRoleCoordinator = "COORDINATOR"
	ConsortiumRoleMember      = "MEMBER"
)

// Error message templates for role guards
const (
	ErrOnlyTutorsCanAccess   = "Only tutors may access %s."
	ErrOnlyStudentsCanAccess = "Only students may access %s."
	ErrOnlyAdminsCanAccess   = "Only admins may access %s."
)

func RoleErrorTutor(feature string) string {
	return fmt.Sprintf(ErrOnlyTutorsCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var AllRoles = []string{RoleStudent, RoleTutor, RoleAdmin}
