package admin

import (
	"fmt"
	"io"

	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/render"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

func newGetDashboardCmd(verb verbs.VerbValue) *cobra.Command {
	rv := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"stats"},
		Short:   "Show platform statistics and recent activity",
		Long: normalizers.LongDesc(`Show the totals for each collection with their month over month
change, followed by the most recent signups and applications.`),
		Example: normalizers.Examples(fmt.Sprintf(`
	# Show the dashboard
	%[1]s get dashboard
	# Number of jobs on the platform
	%[1]s get dashboard -o json --jq '.stats.totalJobs.count'
	`, meta.CLIName)),
		RunE: runGetDashboard,
	}
	AddFlags(verb, rv)
	withJQ(rv)
	return rv
}

func runGetDashboard(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	if len(args) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("the dashboard command does not accept arguments"),
		}
	}

	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	settings, err := outputSettings(helper, outType)
	if err != nil {
		return err
	}
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	client, err := helper.GetAdminClient(cfg, logger)
	if err != nil {
		return err
	}

	stats, err := client.DashboardStats(commandContext(helper, "dashboard"))
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}

	streams := helper.GetStreams()
	return printResult(helper, outType, settings, stats, func(out io.Writer) error {
		_, err := fmt.Fprintln(out, render.Markdown(render.DashboardMarkdown(stats), markdownOptions(streams)))
		return err
	})
}
