package helpers

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/happyjobs/happyctl/internal/admin/apiclient"
	"github.com/happyjobs/happyctl/internal/admin/httpclient"
	"github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/config"
)

// ClientFactory builds the admin API client for a command. Tests put their
// own factory on the command context under ClientFactoryKey.
type ClientFactory func(cfg config.Hook, logger *slog.Logger) (*apiclient.Client, error)

type clientFactoryKey struct{}

var ClientFactoryKey = clientFactoryKey{}

// DefaultClientFactory reads admin.base-url and admin.token from cfg and
// wires the logging HTTP client.
func DefaultClientFactory(cfg config.Hook, logger *slog.Logger) (*apiclient.Client, error) {
	baseURL := strings.TrimSpace(cfg.GetString(common.BaseURLConfigPath))
	if baseURL == "" {
		baseURL = common.DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", common.BaseURLConfigPath, baseURL)
	}

	opts := []apiclient.Option{
		apiclient.WithToken(cfg.GetString(common.TokenConfigPath)),
	}
	if logger != nil {
		opts = append(opts, apiclient.WithDoer(httpclient.NewLoggingHTTPClient(logger)))
	}
	return apiclient.New(baseURL, opts...), nil
}

// PageSize returns admin.page-size, defaulting when unset or not positive.
func PageSize(cfg config.Hook) int {
	n := cfg.GetIntOrElse(common.PageSizeConfigPath, common.DefaultPageSize)
	if n < 1 {
		return common.DefaultPageSize
	}
	return n
}
