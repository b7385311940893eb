package entity

import "time"

// ApplicationStatus is the state of a driver application.
// PENDING moves once to APPROVED or REJECTED and never back.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application links a prospective driver to a sponsor.
type Application struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	SponsorID       string            `json:"sponsorId"`
	ApplicantName   string            `json:"applicantName"`
	ApplicantEmail  string            `json:"applicantEmail"`
	LicenseNumber   string            `json:"licenseNumber"`
	ExperienceYears int               `json:"experienceYears"`
	Reason          string            `json:"reason"`
	Status          ApplicationStatus `json:"status"`
	DecisionReason  string            `json:"decisionReason,omitempty"`
	SubmittedAt     time.Time         `json:"submittedAt"`
	DecidedAt       *time.Time        `json:"decidedAt,omitempty"`
}

// IsPending reports whether the application still awaits a decision.
func (a *Application) IsPending() bool {
	return a.Status == ApplicationPending
}
