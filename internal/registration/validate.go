package registration

import (
	"net/url"
	"regexp"
	"strings"
)

// Draft is an unsubmitted application as the form sends it. Everything
// is a string on the wire; the two confirmations are "yes"/"no".
type Draft struct {
	FullName                  string `json:"full_name"`
	Email                     string `json:"email"`
	Phone                     string `json:"phone"`
	Country                   string `json:"country"`
	LinkedInURL               string `json:"linkedin_url"`
	CurrentStatus             string `json:"current_status"`
	InstitutionOrOrganization string `json:"institution_or_organization"`
	FieldOrRole               string `json:"field_or_role"`
	HighestEducation          string `json:"highest_education"`
	Motivation                string `json:"motivation"`
	EnergyInterest            string `json:"energy_interest"`
	PreviousExperience        string `json:"previous_experience"`
	ClarityToolsExpectation   string `json:"clarity_tools_expectation"`
	ConfirmCommitment         string `json:"confirm_commitment"`
	AgreePayment              string `json:"agree_payment"`
}

// ValidationResult lists the human labels of empty required fields and
// of fields that failed a format check, in form order.
type ValidationResult struct {
	Missing []string `json:"missing"`
	Invalid []string `json:"invalid"`
}

// OK reports whether the draft may be submitted.
func (r ValidationResult) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks a draft against the required-field and format rules.
// Pure: same draft in, same result out.
func Validate(d Draft) ValidationResult {
	var res ValidationResult

	required := []struct {
		label string
		value string
	}{
		{"Full Name", d.FullName},
		{"Email Address", d.Email},
		{"Phone Number", d.Phone},
		{"Country of Residence", d.Country},
		{"LinkedIn Profile URL", d.LinkedInURL},
		{"Current Status", d.CurrentStatus},
		{"University/Institution or Organization", d.InstitutionOrOrganization},
		{"Field of Study or Current Role/Industry", d.FieldOrRole},
		{"Highest Level of Education", d.HighestEducation},
		{"Motivation", d.Motivation},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			res.Missing = append(res.Missing, f.label)
		}
	}

	if d.Email != "" && !emailPattern.MatchString(d.Email) {
		res.Invalid = append(res.Invalid, "Email Address")
	}

	if d.LinkedInURL != "" {
		u, err := url.Parse(d.LinkedInURL)
		if err != nil || !strings.Contains(strings.ToLower(u.Host), "linkedin.com") {
			res.Invalid = append(res.Invalid, "LinkedIn Profile URL")
		}
	}

	if d.ConfirmCommitment != "yes" {
		res.Missing = append(res.Missing, "Commitment Confirmation")
	}
	if d.AgreePayment != "yes" {
		res.Missing = append(res.Missing, "Payment Agreement")
	}

	return res
}
