package get

import (
	"context"
	"fmt"

	"github.com/happyjobs/happyctl/internal/cmd/root/products/admin"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = "Retrieve objects"

	getLong = normalizers.LongDesc(`Use get to retrieve a page of a collection, a single user profile,
or the dashboard statistics from the admin API.

Output can be formatted in multiple ways to aid in further processing.`)

	getExamples = normalizers.Examples(fmt.Sprintf(`
		# List jobseekers
		%[1]s get jobseekers
		# List pending applications as YAML
		%[1]s get applications --status pending -o yaml
		# Show a user profile
		%[1]s get profile 64b7f0c2a1d4e5f6a7b8c9d0
		# Show the dashboard
		%[1]s get dashboard
		`, meta.CLIName))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	cmds, err := admin.NewCommands(Verb)
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(cmds...)

	return cmd, nil
}
