package dto

// =========================
// Requests
// =========================

type UpdateMeRequest struct {
	UserName *string `json:"user_name,omitempty" validate:"omitempty,min=3,max=50"`
}

// OnboardingRequest picks the role once and fills the matching profile.
type OnboardingRequest struct {
	Role string `json:"role" validate:"required,oneof=student tutor"`

	// tutor fields
	Bio             *string  `json:"bio,omitempty"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Subjects        []string `json:"subjects,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty" validate:"omitempty,gte=0"`

	// student fields
	GradeLevel *string `json:"grade_level,omitempty"`
	School     *string `json:"school,omitempty"`
}

type UpdateTutorProfileRequest struct {
	Bio             *string  `json:"bio,omitempty"`
	HourlyRate      *float64 `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Subjects        []string `json:"subjects,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty" validate:"omitempty,gte=0"`
}

type UpdateStudentProfileRequest struct {
	GradeLevel *string `json:"grade_level,omitempty"`
	School     *string `json:"school,omitempty"`
}
