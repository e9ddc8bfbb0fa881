package admin

import (
	"fmt"
	"io"
	"strings"

	"github.com/happyjobs/happyctl/internal/admin/models"
	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const toggleStatusFlagName = "toggle-status"

// patchOutput is the json/yaml shape of a finished change.
type patchOutput struct {
	ID     string `json:"id" yaml:"id"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	Active *bool  `json:"active,omitempty" yaml:"active,omitempty"`
}

func newPatchApplicationCmd(verb verbs.VerbValue) *cobra.Command {
	status := cmdpkg.NewEnum(models.ApplicationStatuses, "")
	rv := &cobra.Command{
		Use:     "application <application-id>",
		Aliases: []string{"applications", "app"},
		Short:   "Change the status of an application",
		Long: normalizers.LongDesc(`Move a job application to another review status. The change is
confirmed interactively unless --yes is given.`),
		Example: normalizers.Examples(fmt.Sprintf(`
	# Shortlist an application
	%[1]s patch application 64b7f0c2a1d4e5f6a7b8c9d0 --status shortlisted
	# Reject without the confirmation prompt
	%[1]s patch application 64b7f0c2a1d4e5f6a7b8c9d0 --status rejected --yes
	`, meta.CLIName)),
		RunE: func(c *cobra.Command, args []string) error {
			return runPatchApplication(c, args, status.Value)
		},
	}
	rv.Flags().Var(status, statusFlagName,
		fmt.Sprintf(`New status for the application.
- Allowed    : [ %s ]`, strings.Join(models.ApplicationStatuses, "|")))
	AddFlags(verb, rv)
	withJQ(rv)
	return rv
}

func runPatchApplication(c *cobra.Command, args []string, status string) error {
	helper := cmdpkg.BuildHelper(c, args)
	id, err := validateID(helper, "application")
	if err != nil {
		return err
	}
	if status == "" {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is required", statusFlagName),
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

	label := normalizers.Label(status)
	if err := cmdpkg.ConfirmChange(helper, fmt.Sprintf("set application %s to %s.", id, label)); err != nil {
		return err
	}

	if err := client.UpdateApplicationStatus(commandContext(helper, "applications"), id, status); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err, "application", id)
	}
	logger.Info("application status updated", "application", id, "status", status)

	return printResult(helper, outType, settings, patchOutput{ID: id, Status: status},
		func(out io.Writer) error {
			_, err := fmt.Fprintf(out, "Application %s is now %s.\n", id, label)
			return err
		})
}

func newPatchUserCmd(verb verbs.VerbValue) *cobra.Command {
	rv := &cobra.Command{
		Use:     "user <user-id>",
		Aliases: []string{"users", "jobseeker", "company"},
		Short:   "Activate or deactivate a jobseeker or company",
		Long: normalizers.LongDesc(`Flip the active flag of a user. Companies are users too. The new
state is read back from the admin API after the change.`),
		Example: normalizers.Examples(fmt.Sprintf(`
	# Deactivate (or reactivate) a user
	%[1]s patch user 64b7f0c2a1d4e5f6a7b8c9d0 --toggle-status
	`, meta.CLIName)),
		RunE: runPatchUser,
	}
	rv.Flags().Bool(toggleStatusFlagName, false, "Flip the active flag of the user.")
	AddFlags(verb, rv)
	withJQ(rv)
	return rv
}

func runPatchUser(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	id, err := validateID(helper, "user")
	if err != nil {
		return err
	}
	toggle, err := c.Flags().GetBool(toggleStatusFlagName)
	if err != nil {
		return err
	}
	if !toggle {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("nothing to change, pass --%s", toggleStatusFlagName),
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

	if err := cmdpkg.ConfirmChange(helper, fmt.Sprintf("toggle the active status of user %s.", id)); err != nil {
		return err
	}

	ctx := commandContext(helper, "users")
	if err := client.ToggleUserStatus(ctx, id); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err, "user", id)
	}

	result := patchOutput{ID: id}
	profile, err := client.UserProfile(ctx, id)
	if err != nil {
		// the change went through; only the read back failed
		logger.Warn("unable to read user status after toggle", "user", id, "error", err)
	} else {
		result.Active = &profile.IsActive
	}

	return printResult(helper, outType, settings, result, func(out io.Writer) error {
		var err error
		switch {
		case result.Active == nil:
			_, err = fmt.Fprintf(out, "Toggled the active status of user %s.\n", id)
		case *result.Active:
			_, err = fmt.Fprintf(out, "User %s is now active.\n", id)
		default:
			_, err = fmt.Fprintf(out, "User %s is now inactive.\n", id)
		}
		return err
	})
}
