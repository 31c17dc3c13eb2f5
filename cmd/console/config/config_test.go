package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
chainId: 42161
snapshotFile: snapshot.json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(42161), cfg.ChainID)
	assert.Equal(t, "snapshot.json", cfg.SnapshotFile)
	assert.Equal(t, int64(DefaultSlippageBps), cfg.SlippageBps)
}

func TestLoadConfigOverridesSlippage(t *testing.T) {
	path := writeConfig(t, `
chainId: 43114
stateStreamUrl: ws://localhost:8546
slippageBps: 30
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(30), cfg.SlippageBps)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "missing chain id",
			contents: "snapshotFile: snapshot.json\n",
			wantErr:  "chainId is required",
		},
		{
			name:     "no snapshot source",
			contents: "chainId: 42161\n",
			wantErr:  "one of stateStreamUrl or snapshotFile",
		},
		{
			name:     "both snapshot sources",
			contents: "chainId: 42161\nstateStreamUrl: ws://x\nsnapshotFile: s.json\n",
			wantErr:  "mutually exclusive",
		},
		{
			name:     "negative slippage",
			contents: "chainId: 42161\nsnapshotFile: s.json\nslippageBps: -1\n",
			wantErr:  "slippageBps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
