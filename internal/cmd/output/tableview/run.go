package tableview

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/happyjobs/happyctl/internal/admin/apiclient"
	"github.com/happyjobs/happyctl/internal/admin/resources"
	"github.com/happyjobs/happyctl/internal/browser"
	"github.com/happyjobs/happyctl/internal/iostreams"
	"github.com/happyjobs/happyctl/internal/log"
)

// Config describes one viewer session.
type Config struct {
	Client   *apiclient.Client
	PageSize int
	Logger   *slog.Logger
	// Initial opens a collection directly instead of the home menu.
	Initial     resources.Kind
	ProfileName string
	// RefreshOnBack refetches the list when leaving a profile.
	RefreshOnBack bool
	// DisableGuard allows overlapping mutations of the same row.
	DisableGuard bool
}

func (c Config) tableOptions() []browser.Option {
	if c.DisableGuard {
		return []browser.Option{browser.WithoutMutationGuard()}
	}
	return nil
}

func (c Config) opener() func(resources.Kind) (resources.Table, error) {
	return func(kind resources.Kind) (resources.Table, error) {
		return resources.New(kind, c.Client, c.PageSize, c.Logger, c.tableOptions()...)
	}
}

func newSession(ctx context.Context, cfg Config, width, height int) *model {
	m := newModel(ctx, cfg.opener(), width, height)
	m.profileName = cfg.ProfileName

	navOpts := []browser.NavigatorOption{browser.WithNavigatorLogger(cfg.Logger)}
	if cfg.RefreshOnBack {
		navOpts = append(navOpts, browser.WithRefreshOnClose(func() (browser.FetchRequest, bool) {
			t := m.active()
			if t == nil {
				return browser.FetchRequest{}, false
			}
			return t.Retry()
		}))
	}
	m.nav = resources.NewProfileNavigator(cfg.Client, navOpts...)

	if cfg.Initial != "" {
		m.initCmd = m.openKind(cfg.Initial)
	}
	return m
}

// Run starts the interactive browser on streams. When the output is not a
// terminal the first page of the initial collection, or the menu, is
// printed instead.
func Run(ctx context.Context, streams *iostreams.IOStreams, cfg Config) error {
	if streams == nil || streams.Out == nil {
		return errors.New("tableview: output stream is not available")
	}
	if cfg.Client == nil {
		return errors.New("tableview: no admin API client configured")
	}
	if cfg.Initial != "" {
		if _, err := resources.ParseKind(string(cfg.Initial)); err != nil {
			return err
		}
	}

	width, height, isTTY := resolveTerminal(streams.Out)
	if !isTTY {
		return runStatic(ctx, streams, cfg)
	}

	// errors become banners while the screen is owned by the viewer
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	program := tea.NewProgram(newSession(ctx, cfg, width, height),
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func runStatic(ctx context.Context, streams *iostreams.IOStreams, cfg Config) error {
	if cfg.Initial == "" {
		return WriteMenu(streams.Out)
	}
	t, err := cfg.opener()(cfg.Initial)
	if err != nil {
		return err
	}
	if err := t.Load(ctx, browser.NewQueryState(cfg.PageSize)); err != nil {
		return err
	}
	return WriteTable(streams.Out, cfg.Initial.Title(), t.Columns(), t.View())
}
