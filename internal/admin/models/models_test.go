package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextApplicationStatus(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{StatusPending, StatusReviewed},
		{StatusShortlisted, StatusInterviewScheduled},
		{StatusRejected, StatusPending},
		{"", StatusPending},
		{"archived", StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			assert.Equal(t, tt.want, NextApplicationStatus(tt.current))
		})
	}
}

func TestPersonAcceptsStringOrObject(t *testing.T) {
	var entries []ActivityEntry
	raw := `[{"applicant":"Asha Rao","jobTitle":"Driver"},
		{"applicant":{"_id":"a1","fullName":"Ravi K"},"job":{"title":"Cook"},"appliedAt":"2025-01-02T10:00:00Z"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	assert.Equal(t, "Asha Rao", entries[0].Who())
	assert.Equal(t, "Driver", entries[0].What())
	assert.Equal(t, "Ravi K", entries[1].Who())
	assert.Equal(t, "a1", entries[1].Applicant.ID)
	assert.Equal(t, "Cook", entries[1].What())
	assert.Equal(t, "2025-01-02", entries[1].When())
}

func TestApplicationRowAccessorsTolerateMissingRefs(t *testing.T) {
	var row ApplicationRow
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"x","status":"pending","appliedAt":"2025-01-02T10:00:00Z"}`), &row))

	assert.Empty(t, row.JobTitle())
	assert.Empty(t, row.ApplicantName())
	assert.Empty(t, row.ResumeURL())
	assert.Equal(t, "x", row.RowID())
}

func TestProfilePlace(t *testing.T) {
	p := ProfileDetail{City: "Pune"}
	assert.Equal(t, "Pune", p.Place())

	p.Location = &Location{City: "Mumbai", State: "MH"}
	assert.Equal(t, "Mumbai, MH", p.Place())
}

func TestJobStatusLabel(t *testing.T) {
	for status, want := range map[string]string{
		JobActive: "Active",
		JobPaused: "Paused",
		JobClosed: "Closed",
		"draft":   "draft",
		"":        "",
	} {
		assert.Equal(t, want, JobRow{Status: status}.StatusLabel(), status)
	}
}
