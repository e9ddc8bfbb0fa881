package models

import "time"

type StatCount struct {
	Count int     `json:"count"`
	Delta float64 `json:"delta"`
}

type Stats struct {
	TotalJobseekers   StatCount `json:"totalJobseekers"`
	TotalCompanies    StatCount `json:"totalCompanies"`
	TotalJobs         StatCount `json:"totalJobs"`
	TotalApplications StatCount `json:"totalApplications"`
}

// ActivityEntry is one recent signup or application.
type ActivityEntry struct {
	FullName  string     `json:"fullName,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Applicant *Person    `json:"applicant,omitempty"`
	Job       *JobRef    `json:"job,omitempty"`
	JobTitle  string     `json:"jobTitle,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
	Time      string     `json:"time,omitempty"`
}

// Who returns the person the entry is about.
func (a ActivityEntry) Who() string {
	switch {
	case a.Applicant != nil && a.Applicant.FullName != "":
		return a.Applicant.FullName
	case a.FullName != "":
		return a.FullName
	default:
		return a.Name
	}
}

// What returns the job title for applications and the email for signups.
func (a ActivityEntry) What() string {
	switch {
	case a.Job != nil && a.Job.Title != "":
		return a.Job.Title
	case a.JobTitle != "":
		return a.JobTitle
	default:
		return a.Email
	}
}

// When returns the server supplied relative time or a formatted date.
func (a ActivityEntry) When() string {
	switch {
	case a.Time != "":
		return a.Time
	case a.AppliedAt != nil:
		return a.AppliedAt.Format(time.DateOnly)
	case a.CreatedAt != nil:
		return a.CreatedAt.Format(time.DateOnly)
	default:
		return ""
	}
}

type RecentActivity struct {
	Signups      []ActivityEntry `json:"signups"`
	Applications []ActivityEntry `json:"applications"`
}

// DashboardStats is the dashboard payload. Chart series are not decoded.
type DashboardStats struct {
	Stats          Stats          `json:"stats"`
	RecentActivity RecentActivity `json:"recentActivity"`
}
