package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runConfig struct {
	Policy string `help:"failure policy" default:"fail-fast"`
	Repeat int    `help:"repeat count" default:"1"`
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultCfgFilename),
		[]byte("policy: skip-topic\nrepeat: 3\n"), 0o644))

	var cfg runConfig
	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("config-dir", dir, "config dir")
	Bind(cmd, &cfg)

	vip, err := Viper(cmd)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultCfgFilename), vip.ConfigFileUsed())

	res := decodeConfigs(cmd, vip, []interface{}{&cfg})
	assert.Empty(t, res.broken)
	assert.Equal(t, "skip-topic", cfg.Policy)
	assert.Equal(t, 3, cfg.Repeat)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	var cfg runConfig
	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("config-dir", t.TempDir(), "config dir")
	Bind(cmd, &cfg)

	vip, err := Viper(cmd)
	require.NoError(t, err)
	assert.Empty(t, vip.ConfigFileUsed())
	decodeConfigs(cmd, vip, []interface{}{&cfg})
	assert.Equal(t, "fail-fast", cfg.Policy)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("EVENTBUS_POLICY", "skip-event")

	var cfg runConfig
	cmd := &cobra.Command{Use: "run"}
	Bind(cmd, &cfg)

	vip, err := Viper(cmd)
	require.NoError(t, err)
	decodeConfigs(cmd, vip, []interface{}{&cfg})
	assert.Equal(t, "skip-event", cfg.Policy)
}
