package models

import "time"

// RegistrationStatus tracks whether payment for a registration has been
// confirmed by the processor.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationVerified RegistrationStatus = "verified"
)

// Registration is a stored program application. Rows are created with
// status pending at submit time and flipped to verified exactly once,
// when the checkout session is confirmed as paid.
type Registration struct {
	ID                        int64              `json:"id"`
	FullName                  string             `json:"full_name"`
	Email                     string             `json:"email"`
	Phone                     string             `json:"phone"`
	Country                   string             `json:"country"`
	LinkedInURL               string             `json:"linkedin_url"`
	CurrentStatus             string             `json:"current_status"`
	InstitutionOrOrganization string             `json:"institution_or_organization"`
	FieldOrRole               string             `json:"field_or_role"`
	HighestEducation          string             `json:"highest_education"`
	Motivation                string             `json:"motivation"`
	EnergyInterest            string             `json:"energy_interest"`
	PreviousExperience        string             `json:"previous_experience,omitempty"`
	ClarityToolsExpectation   string             `json:"clarity_tools_expectation,omitempty"`
	Status                    RegistrationStatus `json:"registration_status"`
	CreatedAt                 time.Time          `json:"created_at"`
}
