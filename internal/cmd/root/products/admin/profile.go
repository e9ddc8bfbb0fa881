package admin

import (
	"fmt"
	"io"

	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/output/jq"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/iostreams"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/render"
	"github.com/happyjobs/happyctl/internal/util"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

var (
	getProfileShort   = "Show a user profile"
	getProfileLong    = normalizers.LongDesc(`Fetch the full profile of a jobseeker or company user by its ID.`)
	getProfileExample = normalizers.Examples(fmt.Sprintf(`
	# Render a profile in the terminal
	%[1]s get profile 64b7f0c2a1d4e5f6a7b8c9d0
	# Extract the skills of a profile
	%[1]s get profile 64b7f0c2a1d4e5f6a7b8c9d0 -o json --jq '.skills'
	`, meta.CLIName))
)

// withJQ registers the jq flags on c and binds them after the admin flags.
func withJQ(c *cobra.Command) {
	jq.AddFlags(c.Flags())
	c.PreRunE = func(c *cobra.Command, args []string) error {
		if err := PreRunE(c, args); err != nil {
			return err
		}
		cfg, err := cmdpkg.BuildHelper(c, args).GetConfig()
		if err != nil {
			return err
		}
		return jq.BindFlags(cfg, c.Flags())
	}
}

// validateID checks the single positional argument is a document ID.
func validateID(helper cmdpkg.Helper, what string) (string, error) {
	args := helper.GetArgs()
	if len(args) != 1 {
		return "", &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("expected exactly one %s ID, got %d arguments", what, len(args)),
		}
	}
	if !util.IsValidObjectID(args[0]) {
		return "", &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%q is not a valid %s ID", args[0], what),
		}
	}
	return args[0], nil
}

// markdownOptions renders plain text unless stdout is a terminal.
func markdownOptions(streams *iostreams.IOStreams) render.Options {
	return render.Options{NoColor: !streams.IsOutTerminal()}
}

func newGetProfileCmd(verb verbs.VerbValue) *cobra.Command {
	rv := &cobra.Command{
		Use:     "profile <user-id>",
		Aliases: []string{"profiles", "user"},
		Short:   getProfileShort,
		Long:    getProfileLong,
		Example: getProfileExample,
		RunE:    runGetProfile,
	}
	AddFlags(verb, rv)
	withJQ(rv)
	return rv
}

func runGetProfile(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	id, err := validateID(helper, "user")
	if err != nil {
		return err
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

	profile, err := client.UserProfile(commandContext(helper, "profile"), id)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err, "user", id)
	}

	streams := helper.GetStreams()
	return printResult(helper, outType, settings, profile, func(out io.Writer) error {
		_, err := fmt.Fprintln(out, render.Markdown(render.ProfileMarkdown(profile), markdownOptions(streams)))
		return err
	})
}
