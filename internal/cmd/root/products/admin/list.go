package admin

import (
	"fmt"
	"io"
	"strings"

	"github.com/happyjobs/happyctl/internal/admin/helpers"
	"github.com/happyjobs/happyctl/internal/admin/models"
	"github.com/happyjobs/happyctl/internal/admin/resources"
	"github.com/happyjobs/happyctl/internal/browser"
	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/output/tableview"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	pageFlagName   = "page"
	searchFlagName = "search"
	statusFlagName = "status"
)

// listOutput is the json/yaml shape of one fetched page.
type listOutput struct {
	Items      any `json:"items" yaml:"items"`
	Page       int `json:"page" yaml:"page"`
	TotalPages int `json:"totalPages" yaml:"totalPages"`
	Total      int `json:"total" yaml:"total"`
}

type listCmd struct {
	*cobra.Command
	kind   resources.Kind
	page   int
	search string
	status *cmdpkg.FlagEnum
}

func newListCmd(verb verbs.VerbValue, kind resources.Kind) *cobra.Command {
	rv := &listCmd{
		Command: &cobra.Command{
			Use:     kind.String(),
			Aliases: kind.Aliases(),
			Short:   fmt.Sprintf("List %s", strings.ToLower(kind.Title())),
			Long: normalizers.LongDesc(fmt.Sprintf(`%s.

Fetches one page of %s from the admin API. Use --page to move through
the collection and --search to narrow it down.`, kind.Description(), strings.ToLower(kind.Title()))),
			Example: normalizers.Examples(fmt.Sprintf(`
		# List the first page of %[2]s
		%[1]s get %[2]s
		# Search and fetch the second page as JSON
		%[1]s get %[2]s --search acme --page 2 -o json`, meta.CLIName, kind)),
		},
		kind: kind,
	}

	rv.Flags().IntVar(&rv.page, pageFlagName, 1, "Page number to fetch, starting at 1.")
	rv.Flags().StringVar(&rv.search, searchFlagName, "", "Only include rows matching this search term.")

	if kind == resources.Applications {
		rv.status = cmdpkg.NewEnum(models.ApplicationStatuses, "")
		rv.Flags().Var(rv.status, statusFlagName,
			fmt.Sprintf(`Only include applications with this status.
- Allowed    : [ %s ]`, strings.Join(models.ApplicationStatuses, "|")))
	}

	AddFlags(verb, rv.Command)
	withJQ(rv.Command)
	rv.RunE = rv.runE

	return rv.Command
}

func (c *listCmd) validate(helper cmdpkg.Helper) error {
	if len(helper.GetArgs()) > 0 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("the %s command does not accept arguments", c.kind),
		}
	}
	if c.page < 1 {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s must be 1 or greater, got %d", pageFlagName, c.page),
		}
	}
	return nil
}

func (c *listCmd) query(pageSize int) browser.QueryState {
	q := browser.NewQueryState(pageSize).WithSearch(strings.TrimSpace(c.search))
	if c.status != nil && c.status.Value != "" {
		q = q.WithStatusFilter(c.status.Value)
	}
	q.Page = c.page
	return q
}

func (c *listCmd) runE(cobraCmd *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(cobraCmd, args)
	if err := c.validate(helper); err != nil {
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

	pageSize := helpers.PageSize(cfg)
	tbl, err := resources.New(c.kind, client, pageSize, logger)
	if err != nil {
		return &cmdpkg.ConfigurationError{Err: err}
	}

	ctx := commandContext(helper, c.kind.String())
	if err := tbl.Load(ctx, c.query(pageSize)); err != nil {
		return cmdpkg.PrepareExecutionErrorFromErr(helper, err, "resource", c.kind.String())
	}

	view := tbl.View()
	result := listOutput{
		Items:      tbl.Records(),
		Page:       view.Page,
		TotalPages: view.TotalPages,
		Total:      view.TotalCount,
	}
	return printResult(helper, outType, settings, result, func(out io.Writer) error {
		return tableview.WriteTable(out, c.kind.Title(), tbl.Columns(), view)
	})
}
