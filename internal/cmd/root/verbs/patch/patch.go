package patch

import (
	"context"
	"fmt"

	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/root/products/admin"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Patch
)

var (
	patchUse = Verb.String()

	patchShort = "Change the state of admin objects"

	patchLong = normalizers.LongDesc(`Apply moderation changes through the admin API: move applications
through the review statuses or activate and deactivate users.

Every change asks for confirmation unless --yes is given.`)

	patchExamples = normalizers.Examples(fmt.Sprintf(`
        # Mark an application as reviewed
        %[1]s patch application 64b7f0c2a1d4e5f6a7b8c9d0 --status reviewed

        # Deactivate a user without prompting
        %[1]s patch user 64b7f0c2a1d4e5f6a7b8c9d0 --toggle-status --yes
        `, meta.CLIName))
)

func NewPatchCmd() (*cobra.Command, error) {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:     patchUse,
		Short:   patchShort,
		Long:    patchLong,
		Example: patchExamples,
		Aliases: []string{"p"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c.SetContext(context.WithValue(ctx, verbs.Verb, Verb))
			cmdpkg.SetAutoApprove(c, autoApprove)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&autoApprove, cmdpkg.YesFlagName, cmdpkg.YesFlagShort, false,
		"Skip the confirmation prompt (not configurable)")

	cmds, err := admin.NewCommands(Verb)
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(cmds...)

	return cmd, nil
}
