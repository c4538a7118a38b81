package api

// Wire types for the OJT management API. Field names follow the JSON the
// server actually emits, camelCase for admin resources and snake_case for the
// student application endpoints.

// Student is an enrolled trainee as listed on the admin screens.
type Student struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Program   string `json:"program"`
	Status    string `json:"status"`
}

// CreateStudentRequest is the payload for creating or updating a student.
// Password is only sent on create.
type CreateStudentRequest struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Phone     string `json:"phone"`
	Program   string `json:"program"`
	Status    string `json:"status"`
}

// Program is an OJT program offering.
type Program struct {
	ID          string `json:"id"`
	ProgramName string `json:"programName"`
	Description string `json:"description"`
}

// CreateProgramRequest is the payload for creating a program.
type CreateProgramRequest struct {
	ProgramName string `json:"programName"`
	Description string `json:"description"`
}

// Partner is a host company accepting trainees.
type Partner struct {
	ID            string `json:"id"`
	PartnerName   string `json:"partnerName"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contactPerson"`
	Status        string `json:"status"`
}

// CreatePartnerRequest is the payload for creating a partner.
type CreatePartnerRequest struct {
	PartnerName   string `json:"partnerName"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contactPerson"`
	Status        string `json:"status"`
}

// Application is an OJT application as seen by an administrator.
type Application struct {
	ID              string `json:"id"`
	StudentName     string `json:"studentName"`
	StudentID       string `json:"studentId"`
	Program         string `json:"program"`
	ApplicationDate string `json:"applicationDate"`
	Status          string `json:"status"`
	PartnerID       string `json:"partnerId,omitempty"`
	PartnerName     string `json:"partnerName,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	RequiredHours   int    `json:"requiredHours,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

// Application review statuses as the server spells them.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ReviewApplicationRequest is the admin review payload. Pointer fields encode
// "clear this field" as an explicit null, which the server distinguishes from
// an omitted field.
type ReviewApplicationRequest struct {
	Status        string  `json:"status"`
	PartnerID     *string `json:"partnerId"`
	StartDate     *string `json:"startDate"`
	EndDate       *string `json:"endDate"`
	RequiredHours *int    `json:"requiredHours"`
	Remarks       *string `json:"remarks"`
}

// StudentApplication is the student's own application record.
type StudentApplication struct {
	ID               string `json:"id,omitempty"`
	Status           string `json:"status,omitempty"`
	ResumePath       string `json:"resume_path,omitempty"`
	LetterPath       string `json:"letter_path,omitempty"`
	PreferredCompany string `json:"preferred_company,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	Remarks          string `json:"remarks,omitempty"`
}

// SubmitApplicationRequest is the student submission payload.
type SubmitApplicationRequest struct {
	PreferredCompany string `json:"preferred_company"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	Remarks          string `json:"remarks,omitempty"`
}

// Progress is the student's OJT progress summary.
type Progress struct {
	Status         string `json:"status"`
	PartnerName    string `json:"partnerName,omitempty"`
	StartDate      string `json:"startDate,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	CompletedHours int    `json:"completedHours"`
	RequiredHours  int    `json:"requiredHours"`
}

// Percentage returns completion as 0-100, capped at 100.
func (p Progress) Percentage() int {
	if p.RequiredHours <= 0 {
		return 0
	}
	pct := p.CompletedHours * 100 / p.RequiredHours
	if pct > 100 {
		return 100
	}
	return pct
}

// Profile is the authenticated account's own profile.
type Profile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	ContactNumber string `json:"contactNumber"`
	Department    string `json:"department"`
	JoinDate      string `json:"joinDate"`
}

// UpdateProfileRequest is the profile edit payload.
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChangePasswordRequest is the password change payload. The server verifies
// the current password and the confirmation match.
type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// DeleteProfileRequest confirms account deletion with the current password.
type DeleteProfileRequest struct {
	Password string `json:"password"`
}

// ReportRequest selects which report to generate.
type ReportRequest struct {
	// Type is one of "applications", "partners", "students".
	Type string
	// DateRange is "all", "month", or "semester".
	DateRange string
	// Status optionally restricts rows to one status.
	Status string
}

// loginRequest is the POST /login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorBody is the error envelope the server uses for 4xx/5xx responses.
// 422 responses carry Errors; everything else carries Message at most.
type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
