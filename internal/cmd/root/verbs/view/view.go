package view

import (
	"context"
	"fmt"

	"github.com/happyjobs/happyctl/internal/admin/helpers"
	"github.com/happyjobs/happyctl/internal/admin/resources"
	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/output/tableview"
	"github.com/happyjobs/happyctl/internal/cmd/root/products/admin"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.View

	RefreshOnBackFlagName   = "refresh-on-back"
	RefreshOnBackConfigPath = "view." + RefreshOnBackFlagName

	OverlappingUpdatesFlagName   = "allow-overlapping-updates"
	OverlappingUpdatesConfigPath = "view." + OverlappingUpdatesFlagName
)

var (
	viewUse = Verb.String() + " [jobseekers|companies|jobs|applications]"

	viewShort = "Launch the interactive admin console"

	viewLong = normalizers.LongDesc(`Open an interactive view into the admin collections. Without an
argument the home menu lists every collection; with one the collection
opens directly.

Inside a collection, n and p page through results, / searches, f cycles
the status filter, a and s change the selected row, and enter opens the
profile of the row. Press ? for every key.

When stdout is not a terminal the menu, or the first page of the named
collection, is printed instead.`)

	viewExamples = normalizers.Examples(fmt.Sprintf(`
		# Launch the admin console
		%[1]s view
		# Go straight to applications and refresh the list after closing a profile
		%[1]s view applications --%[2]s
		`, meta.CLIName, RefreshOnBackFlagName))
)

// NewViewCmd creates the view command which launches the resource viewer.
func NewViewCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     viewUse,
		Short:   viewShort,
		Long:    viewLong,
		Example: viewExamples,
		Aliases: []string{"v", "V"},
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
		PreRunE: bindFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmdpkg.BuildHelper(c, args))
		},
	}

	admin.AddFlags(Verb, cmd)

	cmd.Flags().Bool(RefreshOnBackFlagName, false,
		fmt.Sprintf(`Refetch the current page when returning from a profile.
- Config path: [ %s ]`, RefreshOnBackConfigPath))
	cmd.Flags().Bool(OverlappingUpdatesFlagName, false,
		fmt.Sprintf(`Allow a second change to a row while the first is still in flight.
- Config path: [ %s ]`, OverlappingUpdatesConfigPath))

	return cmd, nil
}

func bindFlags(c *cobra.Command, args []string) error {
	if err := admin.PreRunE(c, args); err != nil {
		return err
	}
	cfg, err := cmdpkg.BuildHelper(c, args).GetConfig()
	if err != nil {
		return err
	}
	for flag, path := range map[string]string{
		RefreshOnBackFlagName:      RefreshOnBackConfigPath,
		OverlappingUpdatesFlagName: OverlappingUpdatesConfigPath,
	} {
		if err := cfg.BindFlag(path, c.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

func run(helper cmdpkg.Helper) error {
	var initial resources.Kind
	if args := helper.GetArgs(); len(args) > 0 {
		kind, err := resources.ParseKind(args[0])
		if err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
		initial = kind
	}

	logger, err := helper.GetLogger()
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

	err = tableview.Run(helper.GetContext(), helper.GetStreams(), tableview.Config{
		Client:        client,
		PageSize:      helpers.PageSize(cfg),
		Logger:        logger,
		Initial:       initial,
		ProfileName:   cfg.GetProfile(),
		RefreshOnBack: cfg.GetBool(RefreshOnBackConfigPath),
		DisableGuard:  cfg.GetBool(OverlappingUpdatesConfigPath),
	})
	if err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}
