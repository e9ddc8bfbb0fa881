package admin

import (
	"context"
	"fmt"

	"github.com/happyjobs/happyctl/internal/admin/resources"
	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/cmd/root/products"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs"
	"github.com/happyjobs/happyctl/internal/log"
	"github.com/spf13/cobra"
)

const (
	Product = products.ProductValue("admin")
)

// AddFlags registers the admin API connection flags on cmd. The page size
// flag only applies to verbs that list collections.
func AddFlags(verb verbs.VerbValue, cmd *cobra.Command) {
	cmd.Flags().String(common.BaseURLFlagName, "",
		fmt.Sprintf(`Base URL for admin API requests.
- Config path: [ %s ]
- Default   : [ %s ]`,
			common.BaseURLConfigPath, common.DefaultBaseURL))

	cmd.Flags().String(common.TokenFlagName, "",
		fmt.Sprintf(`Bearer token sent with every admin API request.
- Config path: [ %s ]`,
			common.TokenConfigPath))

	if verb == verbs.Get || verb == verbs.View {
		cmd.Flags().Int(common.PageSizeFlagName, common.DefaultPageSize,
			fmt.Sprintf(`Number of rows requested per page.
- Config path: [ %s ]`,
				common.PageSizeConfigPath))
	}
}

// BindFlags connects the flags registered by AddFlags to the profile config.
func BindFlags(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}

	for flag, path := range map[string]string{
		common.BaseURLFlagName:  common.BaseURLConfigPath,
		common.TokenFlagName:    common.TokenConfigPath,
		common.PageSizeFlagName: common.PageSizeConfigPath,
	} {
		f := c.Flags().Lookup(flag)
		if f == nil { // might not be present depending on verb
			continue
		}
		if err := cfg.BindFlag(path, f); err != nil {
			return err
		}
	}
	return nil
}

// PreRunE tags the context with the product and binds the admin flags.
func PreRunE(c *cobra.Command, args []string) error {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, products.Product, Product)
	c.SetContext(ctx)
	return BindFlags(c, args)
}

// NewCommands returns the admin commands available under verb.
func NewCommands(verb verbs.VerbValue) ([]*cobra.Command, error) {
	switch verb {
	case verbs.Get:
		rv := make([]*cobra.Command, 0, len(resources.Kinds())+2)
		for _, kind := range resources.Kinds() {
			rv = append(rv, newListCmd(verb, kind))
		}
		rv = append(rv, newGetProfileCmd(verb), newGetDashboardCmd(verb))
		return rv, nil
	case verbs.Patch:
		return []*cobra.Command{
			newPatchApplicationCmd(verb),
			newPatchUserCmd(verb),
		}, nil
	case verbs.View:
		return nil, fmt.Errorf("the %s verb runs the viewer directly", verb)
	}
	return nil, fmt.Errorf("unsupported verb %q", verb)
}

// commandContext returns the helper's context tagged for HTTP trace logs.
func commandContext(helper cmdpkg.Helper, resource string) context.Context {
	verb, _ := helper.GetVerb()
	path := ""
	if c := helper.GetCmd(); c != nil {
		path = c.CommandPath()
	}
	return log.WithHTTPLogContext(helper.GetContext(), log.HTTPLogContext{
		CommandPath: path,
		CommandVerb: verb.String(),
		Resource:    resource,
	})
}
