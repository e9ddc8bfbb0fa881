package models

import (
	"encoding/json"
	"time"
)

// Application statuses accepted by the admin API, in review order.
const (
	StatusPending            = "pending"
	StatusReviewed           = "reviewed"
	StatusShortlisted        = "shortlisted"
	StatusInterviewScheduled = "interview-scheduled"
	StatusSelected           = "selected"
	StatusRejected           = "rejected"
)

var ApplicationStatuses = []string{
	StatusPending,
	StatusReviewed,
	StatusShortlisted,
	StatusInterviewScheduled,
	StatusSelected,
	StatusRejected,
}

// Job posting statuses.
const (
	JobActive = "active"
	JobPaused = "paused"
	JobClosed = "closed"
)

// NextApplicationStatus returns the status following current in review
// order, wrapping back to pending after rejected.
func NextApplicationStatus(current string) string {
	for i, s := range ApplicationStatuses {
		if s == current {
			return ApplicationStatuses[(i+1)%len(ApplicationStatuses)]
		}
	}
	return StatusPending
}

type JobseekerRow struct {
	ID          string    `json:"_id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	City        string    `json:"city,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	IsActive    bool      `json:"isActive"`
}

func (r JobseekerRow) RowID() string { return r.ID }

type CompanyRow struct {
	ID          string    `json:"_id"`
	CompanyName string    `json:"companyName"`
	Industry    string    `json:"industry,omitempty"`
	FullName    string    `json:"fullName,omitempty"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	IsActive    bool      `json:"isActive"`
}

func (r CompanyRow) RowID() string { return r.ID }

type Location struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

type JobRow struct {
	ID                string    `json:"_id"`
	Title             string    `json:"title"`
	Company           string    `json:"company,omitempty"`
	Location          *Location `json:"location,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	ApplicationsCount int       `json:"applicationsCount"`
	Status            string    `json:"status"`
}

func (r JobRow) RowID() string { return r.ID }

// StatusLabel is the display name of the posting status. Values other than
// active, paused and closed are shown as sent.
func (r JobRow) StatusLabel() string {
	switch r.Status {
	case JobActive:
		return "Active"
	case JobPaused:
		return "Paused"
	case JobClosed:
		return "Closed"
	}
	return r.Status
}

func (r JobRow) City() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.City
}

type JobRef struct {
	ID      string `json:"_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// Person is a user reference embedded in other documents. The API sends
// either an object or, for some activity entries, a bare name.
type Person struct {
	ID       string `json:"_id,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (p *Person) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*p = Person{FullName: name}
		return nil
	}
	type plain Person
	return json.Unmarshal(data, (*plain)(p))
}

type Link struct {
	URL string `json:"url,omitempty"`
	URI string `json:"uri,omitempty"`
}

type ApplicationRow struct {
	ID        string    `json:"_id"`
	Job       *JobRef   `json:"job,omitempty"`
	Applicant *Person   `json:"applicant,omitempty"`
	AppliedAt time.Time `json:"appliedAt"`
	Status    string    `json:"status"`
	Resume    *Link     `json:"resume,omitempty"`
}

func (r ApplicationRow) RowID() string { return r.ID }

func (r ApplicationRow) JobTitle() string {
	if r.Job == nil {
		return ""
	}
	return r.Job.Title
}

func (r ApplicationRow) Company() string {
	if r.Job == nil {
		return ""
	}
	return r.Job.Company
}

func (r ApplicationRow) ApplicantName() string {
	if r.Applicant == nil {
		return ""
	}
	return r.Applicant.FullName
}

func (r ApplicationRow) ApplicantID() string {
	if r.Applicant == nil {
		return ""
	}
	return r.Applicant.ID
}

func (r ApplicationRow) ResumeURL() string {
	if r.Resume == nil {
		return ""
	}
	return r.Resume.URL
}
