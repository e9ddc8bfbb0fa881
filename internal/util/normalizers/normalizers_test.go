package normalizers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"pending":             "Pending",
		"interview-scheduled": "Interview Scheduled",
		"  rejected ":         "Rejected",
		"job_seeker":          "Job Seeker",
		"":                    "",
	}
	for input, expected := range cases {
		require.Equal(t, expected, Label(input), "input %q", input)
	}
}

func TestExamplesIndentsEachLine(t *testing.T) {
	out := Examples(`
	# first
	happyctl get jobs
	`)
	require.Equal(t, "  # first\n  happyctl get jobs", out)
}
