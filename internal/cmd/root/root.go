package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/happyjobs/happyctl/internal/build"
	"github.com/happyjobs/happyctl/internal/cmd"
	"github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs/get"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs/patch"
	"github.com/happyjobs/happyctl/internal/cmd/root/verbs/view"
	"github.com/happyjobs/happyctl/internal/cmd/root/version"
	"github.com/happyjobs/happyctl/internal/config"
	"github.com/happyjobs/happyctl/internal/iostreams"
	"github.com/happyjobs/happyctl/internal/log"
	"github.com/happyjobs/happyctl/internal/meta"
	"github.com/happyjobs/happyctl/internal/theme"
	"github.com/happyjobs/happyctl/internal/util"
	"github.com/happyjobs/happyctl/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const defaultProfile = "default"

var (
	rootLong = normalizers.LongDesc(fmt.Sprintf(`
  %[1]s is the command line console for %[2]s administrators.

  Browse jobseekers, companies, jobs and applications, review profiles,
  and moderate users and applications through the %[2]s admin API.`, meta.CLIName, meta.ProductName))

	rootShort = fmt.Sprintf("%s administers %s", meta.CLIName, meta.ProductName)

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path
	configFilePath        string
	defaultConfigFilePath string
	currProfile           = defaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)
	colorTheme   = theme.NewFlag(common.DefaultColorTheme)

	logger    *slog.Logger
	logCloser io.Closer

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   meta.CLIName,
		Short: rootShort,
		Long:  rootLong,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if err := theme.SetCurrent(currConfig.GetString(common.ColorThemeConfigPath)); err != nil {
				return &cmd.ConfigurationError{Err: err}
			}
			if err := initLogger(c); err != nil {
				return err
			}

			ctx := context.WithValue(c.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			c.SetContext(ctx)
			return nil
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	rootCmd.PersistentFlags().StringVar(&configFilePath, common.ConfigFilePathFlagName,
		defaultConfigFilePath,
		"Path to the configuration file to load.")

	rootCmd.PersistentFlags().StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		defaultProfile,
		fmt.Sprintf(`Specify the profile to use for this command.
- Environment: [ %s_PROFILE ]`, strings.ToUpper(meta.CLIName)))

	rootCmd.PersistentFlags().VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	rootCmd.PersistentFlags().Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	rootCmd.PersistentFlags().String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write log records to this file instead of the default.
- Config path: [ %s ]`,
			common.LogFileConfigPath))

	rootCmd.PersistentFlags().Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Color theme for tables and the interactive viewer.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorThemeConfigPath, strings.Join(theme.Available(), "|")))

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())

	for _, newCmd := range []func() (*cobra.Command, error){
		get.NewGetCmd,
		patch.NewPatchCmd,
		view.NewViewCmd,
	} {
		c, err := newCmd()
		if err != nil {
			return err
		}
		rootCmd.AddCommand(c)
	}
	return nil
}

func init() {
	var err error
	defaultConfigFilePath, err = config.GetDefaultConfigFilePath()
	util.CheckError(err)
	configFilePath = defaultConfigFilePath

	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err = addCommands()
	util.CheckError(err)

	// The profile is not part of the configuration, so viper can't apply
	// its priorities to it. A well known variable sets the package level
	// value before flags are parsed, giving ENV_VAR < CLI_FLAG.
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found && profileEnvVar != "" {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, err := config.GetConfig(configFilePath, currProfile, defaultConfigFilePath)
	util.CheckError(err)
	currConfig = cfg

	for flag, path := range map[string]string{
		common.OutputFlagName:     common.OutputConfigPath,
		common.LogLevelFlagName:   common.LogLevelConfigPath,
		common.LogFileFlagName:    common.LogFileConfigPath,
		common.ColorThemeFlagName: common.ColorThemeConfigPath,
	} {
		f := rootCmd.PersistentFlags().Lookup(flag)
		util.CheckError(cfg.BindFlag(path, f))
	}
}

func initLogger(c *cobra.Command) error {
	level := currConfig.GetString(common.LogLevelConfigPath)
	if _, err := common.LogLevelStringToIota(level); err != nil {
		return &cmd.ConfigurationError{Err: err}
	}

	l, closer, err := log.NewLogger(log.Options{
		Level:    log.ConfigLevelStringToSlogLevel(level),
		FilePath: currConfig.GetString(common.LogFileConfigPath),
		Stderr:   streams.ErrOut,
	})
	if err != nil {
		return &cmd.ConfigurationError{Err: err}
	}
	logger = l
	logCloser = closer
	logger.Debug("command started",
		"command", c.CommandPath(), "profile", currConfig.GetProfile(), "config", currConfig.GetPath())
	return nil
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(err)
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if code != 0 {
		os.Exit(code)
	}
}

// exitCode reports err and maps it to the process exit status. Execution
// errors go through the logger so they reach both the log file and stderr;
// cobra has already printed everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var executionError *cmd.ExecutionError
	if errors.As(err, &executionError) {
		if logger != nil {
			logger.Error(executionError.Msg, executionError.Attrs...)
		} else {
			fmt.Fprintln(streams.ErrOut, "Error:", executionError.Msg)
		}
	}
	return 1
}
