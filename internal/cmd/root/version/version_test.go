package version

import (
	"encoding/json"
	"testing"

	"github.com/happyjobs/happyctl/internal/build"
	"github.com/happyjobs/happyctl/internal/cmd/common"
	"github.com/happyjobs/happyctl/internal/config"
	"github.com/happyjobs/happyctl/internal/iostreams"
	"github.com/happyjobs/happyctl/test/cmd"
	testConfig "github.com/happyjobs/happyctl/test/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHelper(streams *iostreams.IOStreams, outType common.OutputFormat, values map[string]any) *cmd.MockHelper {
	return &cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return outType, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return testConfig.NewMockConfigHook(values), nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return streams
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "1.4.0",
				Commit:  "a1b2c3d",
				Date:    "2026-01-02",
			}, nil
		},
	}
}

func Test_VersionCmd(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.TEXT, nil)

	require.NoError(t, validate(helper))
	require.NoError(t, run(helper))
	assert.Equal(t, "1.4.0\n", out.String())
}

func Test_VersionCmdShowCommit(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.TEXT, map[string]any{ShowCommitConfigPath: true})

	require.NoError(t, run(helper))
	assert.Equal(t, "1.4.0 (a1b2c3d)\n", out.String())
}

func Test_VersionCmdJSONOutput(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()
	helper := newHelper(streams, common.JSON, map[string]any{ShowCommitConfigPath: "true"})

	require.NoError(t, run(helper))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]any{
		"version": "1.4.0",
		"commit":  "a1b2c3d",
		"date":    "2026-01-02",
	}, got)
}

func Test_VersionCmdRejectsArgs(t *testing.T) {
	helper := &cmd.MockHelper{
		GetArgsMock: func() []string { return []string{"extra"} },
	}
	require.Error(t, validate(helper))
}
