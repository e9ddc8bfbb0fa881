package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/happyjobs/happyctl/internal/admin/models"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
)

const notProvided = "Not provided"

type doc struct {
	b strings.Builder
}

func (d *doc) heading(level int, text string) {
	fmt.Fprintf(&d.b, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (d *doc) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		value = notProvided
	}
	fmt.Fprintf(&d.b, "- **%s:** %s\n", label, value)
}

func (d *doc) end() {
	d.b.WriteString("\n")
}

func (d *doc) String() string {
	return d.b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func date(ts *time.Time) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format(time.DateOnly)
}

// ProfileMarkdown lays out a user profile as a markdown document.
func ProfileMarkdown(p *models.ProfileDetail) string {
	var d doc
	if p == nil {
		return ""
	}
	name := p.FullName
	if name == "" {
		name = p.ID
	}
	d.heading(1, name)

	d.heading(2, "Personal Information")
	d.field("Email", p.Email)
	d.field("Phone", p.PhoneNumber)
	d.field("Gender", normalizers.Label(p.Gender))
	if p.Age > 0 {
		d.field("Age", strconv.Itoa(p.Age))
	}
	d.field("Date of birth", date(p.DateOfBirth))
	d.field("Account type", normalizers.Label(p.UserType))
	d.field("Active", yesNo(p.IsActive))
	d.field("Verified", yesNo(p.IsVerified))
	d.field("Member since", date(p.CreatedAt))
	d.field("Last login", date(p.LastLogin))
	d.end()

	d.heading(2, "Location")
	d.field("Address", p.Address)
	d.field("City", p.Place())
	d.end()

	d.heading(2, "Skills")
	d.field("Skills", strings.Join(p.Skills, ", "))
	d.field("Languages", strings.Join(p.Languages, ", "))
	if p.YearsOfExperience > 0 {
		d.field("Years of experience", strconv.Itoa(p.YearsOfExperience))
	}
	d.field("Availability", normalizers.Label(p.Availability))
	d.end()

	if len(p.Education) > 0 {
		d.heading(2, "Education")
		for _, e := range p.Education {
			line := strings.TrimSpace(strings.Join(nonEmpty(normalizers.Label(e.Level), e.Institution, e.Board), ", "))
			if e.YearOfPassing > 0 {
				line += fmt.Sprintf(" (%d)", e.YearOfPassing)
			}
			if e.Percentage > 0 {
				line += fmt.Sprintf(" %.1f%%", e.Percentage)
			}
			fmt.Fprintf(&d.b, "- %s\n", line)
		}
		d.end()
	}

	if len(p.Experience) > 0 {
		d.heading(2, "Experience")
		for _, e := range p.Experience {
			fmt.Fprintf(&d.b, "- **%s**", e.JobTitle)
			if e.Company != "" {
				fmt.Fprintf(&d.b, " at %s", e.Company)
			}
			if e.Duration != "" {
				fmt.Fprintf(&d.b, " (%s)", e.Duration)
			}
			d.b.WriteString("\n")
			if e.Description != "" {
				fmt.Fprintf(&d.b, "  %s\n", e.Description)
			}
		}
		d.end()
	}

	if prefs := p.JobPreferences; prefs != nil {
		d.heading(2, "Job Preferences")
		d.field("Job type", normalizers.Label(prefs.JobType))
		d.field("Work timing", normalizers.Label(prefs.WorkTiming))
		if prefs.WillingToTravel != nil {
			d.field("Willing to travel", yesNo(*prefs.WillingToTravel))
		}
		if r := prefs.SalaryRange; r != nil && (r.Min > 0 || r.Max > 0) {
			d.field("Expected salary", fmt.Sprintf("%d - %d", r.Min, r.Max))
		}
		d.end()
	}

	d.heading(2, "Documents")
	d.field("Resume", linkURI(p.Resume))
	if p.Documents != nil {
		d.field("Aadhaar", linkURI(p.Documents.Aadhaar))
		d.field("Driving license", linkURI(p.Documents.DrivingLicense))
	}
	d.end()

	return d.String()
}

func linkURI(l *models.Link) string {
	if l == nil {
		return ""
	}
	if l.URI != "" {
		return l.URI
	}
	return l.URL
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// DashboardMarkdown lays out the dashboard totals and recent activity.
func DashboardMarkdown(s *models.DashboardStats) string {
	var d doc
	if s == nil {
		return ""
	}
	d.heading(1, "Dashboard")
	d.b.WriteString("| Collection | Total | Change |\n|---|---:|---:|\n")
	for _, row := range []struct {
		label string
		stat  models.StatCount
	}{
		{"Jobseekers", s.Stats.TotalJobseekers},
		{"Companies", s.Stats.TotalCompanies},
		{"Jobs", s.Stats.TotalJobs},
		{"Applications", s.Stats.TotalApplications},
	} {
		fmt.Fprintf(&d.b, "| %s | %d | %+.1f%% |\n", row.label, row.stat.Count, row.stat.Delta)
	}
	d.end()

	activity(&d, "Recent Signups", s.RecentActivity.Signups)
	activity(&d, "Recent Applications", s.RecentActivity.Applications)
	return d.String()
}

func activity(d *doc, title string, entries []models.ActivityEntry) {
	d.heading(2, title)
	if len(entries) == 0 {
		d.b.WriteString("No recent activity.\n\n")
		return
	}
	for _, e := range entries {
		line := e.Who()
		if what := e.What(); what != "" {
			line += " · " + what
		}
		if when := e.When(); when != "" {
			line += " · " + when
		}
		fmt.Fprintf(&d.b, "- %s\n", line)
	}
	d.end()
}
