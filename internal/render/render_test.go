package render

import (
	"testing"
	"time"

	"github.com/happyjobs/happyctl/internal/admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileMarkdown(t *testing.T) {
	travel := true
	dob := time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC)
	md := ProfileMarkdown(&models.ProfileDetail{
		ID:          "u1",
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		DateOfBirth: &dob,
		IsActive:    true,
		Location:    &models.Location{City: "Pune", State: "MH"},
		Skills:      []string{"welding", "fitting"},
		Education:   []models.Education{{Level: "diploma", Institution: "ITI Pune", YearOfPassing: 2014}},
		Experience:  []models.Experience{{JobTitle: "Welder", Company: "Acme", Duration: "3 years"}},
		JobPreferences: &models.JobPreferences{
			WillingToTravel: &travel,
			SalaryRange:     &models.SalaryRange{Min: 15000, Max: 25000},
		},
		Resume: &models.Link{URI: "https://files.example.com/r.pdf"},
	})

	assert.Contains(t, md, "# Asha Rao")
	assert.Contains(t, md, "- **Phone:** Not provided")
	assert.Contains(t, md, "- **Date of birth:** 1995-06-01")
	assert.Contains(t, md, "- **Active:** Yes")
	assert.Contains(t, md, "- **City:** Pune, MH")
	assert.Contains(t, md, "welding, fitting")
	assert.Contains(t, md, "- Diploma, ITI Pune (2014)")
	assert.Contains(t, md, "- **Welder** at Acme (3 years)")
	assert.Contains(t, md, "- **Willing to travel:** Yes")
	assert.Contains(t, md, "15000 - 25000")
	assert.Contains(t, md, "https://files.example.com/r.pdf")
	assert.Empty(t, ProfileMarkdown(nil))
}

func TestDashboardMarkdown(t *testing.T) {
	md := DashboardMarkdown(&models.DashboardStats{
		Stats: models.Stats{TotalJobs: models.StatCount{Count: 42, Delta: 12.5}},
		RecentActivity: models.RecentActivity{
			Applications: []models.ActivityEntry{{
				Applicant: &models.Person{FullName: "Ravi"},
				Job:       &models.JobRef{Title: "Driver"},
				Time:      "2 hours ago",
			}},
		},
	})
	assert.Contains(t, md, "| Jobs | 42 | +12.5% |")
	assert.Contains(t, md, "- Ravi · Driver · 2 hours ago")
	assert.Contains(t, md, "## Recent Signups\n\nNo recent activity.")
}

func TestMarkdownWithoutColor(t *testing.T) {
	out := Markdown("# Title\n\nbody text", Options{NoColor: true, Width: 40})
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}
