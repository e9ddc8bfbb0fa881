package admin

import (
	"io"

	cmdpkg "github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/cmd/output/jq"
	"github.com/segmentio/cli"
)

// outputSettings resolves the jq flags of the running command and rejects
// combinations the output format cannot honor, before any request is made.
func outputSettings(helper cmdpkg.Helper, outType common.OutputFormat) (jq.Settings, error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return jq.Settings{}, err
	}
	settings, err := jq.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return jq.Settings{}, &cmdpkg.ConfigurationError{Err: err}
	}
	if err := settings.Validate(outType); err != nil {
		return jq.Settings{}, err
	}
	return settings, nil
}

// printResult writes raw in outType. Text output is delegated to text;
// json and yaml go through the jq filter and the structured printers.
func printResult(
	helper cmdpkg.Helper,
	outType common.OutputFormat,
	settings jq.Settings,
	raw any,
	text func(io.Writer) error,
) error {
	out := helper.GetStreams().Out
	if outType == common.TEXT {
		return text(out)
	}

	value, handled, err := jq.Apply(raw, outType, settings, out)
	if err != nil {
		return cmdpkg.PrepareExecutionError("Failed to apply jq filter", err, helper.GetCmd())
	}
	if handled {
		return nil
	}

	printer, err := cli.Format(outType.String(), out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(value)
	return nil
}
