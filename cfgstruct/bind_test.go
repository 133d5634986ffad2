package cfgstruct

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Policy   string        `help:"failure policy" default:"fail-fast"`
	Verbose  bool          `help:"verbose" default:"true"`
	Count    int           `help:"count" default:"3"`
	Timeout  time.Duration `help:"timeout" default:"1m"`
	Topics   []string      `help:"topics" default:"a,b"`
	Dir      string        `help:"dir" default:"$ROOT/data"`
	LogLevel string        `help:"level" releaseDefault:"warn" default:"info"`
	HTTPAddr string        `help:"addr" default:"127.0.0.1:0"`
	Log      struct {
		MaxSize int `help:"max size" default:"100"`
	}
	hidden string
}

func TestBind(t *testing.T) {
	var cfg testConfig
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Bind(f, &cfg, Root("/tmp/x"))

	assert.Equal(t, "fail-fast", cfg.Policy)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, []string{"a", "b"}, cfg.Topics)
	assert.Equal(t, "/tmp/x/data", cfg.Dir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.Log.MaxSize)
	assert.Empty(t, cfg.hidden)

	require.NoError(t, f.Parse([]string{"--count=7", "--log.max-size=5", "--http-addr=:80"}))
	assert.Equal(t, 7, cfg.Count)
	assert.Equal(t, 5, cfg.Log.MaxSize)
	assert.Equal(t, ":80", cfg.HTTPAddr)
	assert.Equal(t, "failure policy", f.Lookup("policy").Usage)
}

func TestBindReleaseDefaults(t *testing.T) {
	var cfg testConfig
	Bind(pflag.NewFlagSet("test", pflag.ContinueOnError), &cfg, UseReleaseDefaults())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "$ROOT/data", cfg.Dir)
}

func TestBindRejectsNonPointer(t *testing.T) {
	assert.Panics(t, func() {
		Bind(pflag.NewFlagSet("test", pflag.ContinueOnError), testConfig{})
	})
}

func TestHyphenate(t *testing.T) {
	for in, want := range map[string]string{
		"Policy":      "policy",
		"MaxIdleConn": "max-idle-conn",
		"HTTPAddr":    "http-addr",
		"FailFast":    "fail-fast",
		"Log2File":    "log2-file",
	} {
		assert.Equal(t, want, Hyphenate(in), in)
	}
}
