package helpers

import (
	"testing"

	"github.com/happyjobs/happyctl/internal/cmd/common"
	configtest "github.com/happyjobs/happyctl/test/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClientFactory(t *testing.T) {
	cfg := configtest.NewMockConfigHook(map[string]any{
		common.BaseURLConfigPath: "https://admin.happyjobs.test/api/",
	})

	client, err := DefaultClientFactory(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://admin.happyjobs.test/api", client.BaseURL())
}

func TestDefaultClientFactoryFallsBackToDefaultURL(t *testing.T) {
	client, err := DefaultClientFactory(configtest.NewMockConfigHook(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, common.DefaultBaseURL, client.BaseURL())
}

func TestDefaultClientFactoryRejectsRelativeURL(t *testing.T) {
	cfg := configtest.NewMockConfigHook(map[string]any{common.BaseURLConfigPath: "/api"})

	_, err := DefaultClientFactory(cfg, nil)
	require.Error(t, err)
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, common.DefaultPageSize, PageSize(configtest.NewMockConfigHook(nil)))
	assert.Equal(t, 25, PageSize(configtest.NewMockConfigHook(map[string]any{common.PageSizeConfigPath: "25"})))
	assert.Equal(t, common.DefaultPageSize, PageSize(configtest.NewMockConfigHook(map[string]any{common.PageSizeConfigPath: 0})))
}
