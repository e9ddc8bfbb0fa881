package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

type confirmContextKey struct{}

const (
	YesFlagName  = "yes"
	YesFlagShort = "y"
)

// SetAutoApprove stores the --yes flag state on the command context.
func SetAutoApprove(cmd *cobra.Command, approved bool) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, confirmContextKey{}, approved))
}

// AutoApproveEnabled reports whether the user opted to skip confirmation prompts.
func AutoApproveEnabled(helper Helper) bool {
	if helper == nil || helper.GetCmd() == nil || helper.GetCmd().Context() == nil {
		return false
	}
	approved, _ := helper.GetCmd().Context().Value(confirmContextKey{}).(bool)
	return approved
}

// ConfirmChange asks the user to type 'yes' before a moderation change is
// sent to the admin API, unless --yes was given.
func ConfirmChange(helper Helper, description string) error {
	if AutoApproveEnabled(helper) {
		return nil
	}

	streams := helper.GetStreams()
	fmt.Fprintf(streams.Out, "\nYou are about to %s\n", description)
	fmt.Fprint(streams.Out, "\nDo you want to continue? Type 'yes' to confirm: ")

	input := streams.In
	if f, ok := input.(*os.File); ok && f.Fd() == os.Stdin.Fd() {
		if tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0); err == nil {
			defer tty.Close()
			input = tty
		}
	}

	lineCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(input).ReadString('\n')
		if err != nil && line == "" {
			errCh <- err
			return
		}
		lineCh <- line
	}()

	ctx := helper.GetContext()
	if ctx == nil {
		ctx = context.Background()
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
	case <-sigCh:
	case <-errCh:
	case line := <-lineCh:
		if strings.EqualFold(strings.TrimSpace(line), "yes") {
			return nil
		}
	}
	return PrepareExecutionErrorMsg(helper, "change cancelled")
}
