package process

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/opdss/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/structs"
	"go.uber.org/zap"

	"github.com/opdss/eventbus/cfgstruct"
)

// DefaultCfgFilename is the file looked up in the "config-dir" directory.
const DefaultCfgFilename = "config.yaml"

// DefaultEnvPrefix is used when ENV_PREFIX is not set.
const DefaultEnvPrefix = "eventbus"

var (
	commandMtx sync.Mutex
	contexts   = map[*cobra.Command]context.Context{}
	cancels    = map[*cobra.Command]context.CancelFunc{}
	configs    = map[*cobra.Command][]interface{}{}
	vipers     = map[*cobra.Command]*viper.Viper{}
)

// Bind sets flags on a command that match the configuration struct
// 'config'. The config has all of its values loaded when the command runs.
func Bind(cmd *cobra.Command, config interface{}, opts ...cfgstruct.BindOpt) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	cfgstruct.Bind(cmd.Flags(), config, opts...)
	configs[cmd] = append(configs[cmd], config)
}

// ExecOptions contains options for ExecWithOptions.
type ExecOptions struct {
	// FailOnValueError fails the command when a config value cannot be decoded.
	FailOnValueError bool

	LoadConfig func(cmd *cobra.Command, vip *viper.Viper) error
	// NewLogger builds the logger once configuration is loaded. Defaults to zap.L().
	NewLogger func() (*zap.Logger, error)
}

// Exec runs a Cobra command, loading "config-dir"/config.yaml with viper when
// the flag is defined.
func Exec(cmd *cobra.Command) {
	ExecWithOptions(cmd, ExecOptions{LoadConfig: LoadConfig})
}

// ExecWithOptions runs a Cobra command with custom options.
func ExecWithOptions(cmd *cobra.Command, opts ExecOptions) {
	if opts.LoadConfig == nil {
		opts.LoadConfig = LoadConfig
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "output the version's build information, if any",
		RunE:        cmdVersion,
		Annotations: map[string]string{"type": "setup"}})

	exe, err := os.Executable()
	if err == nil && cmd.Use == "" {
		cmd.Use = exe
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	wrap(cmd, &opts)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Ctx returns the context of a running command. It is cancelled on SIGINT
// or SIGTERM.
func Ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	ctx := contexts[cmd]
	if ctx == nil {
		ctx = context.Background()
		contexts[cmd] = ctx
	}

	cancel := cancels[cmd]
	if cancel == nil {
		ctx, cancel = context.WithCancel(ctx)
		contexts[cmd] = ctx
		cancels[cmd] = cancel

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-c:
				zap.L().Info("Got a signal from the OS", zap.Stringer("signal", sig))
				cancel()
			case <-ctx.Done():
			}
			signal.Stop(c)
		}()
	}

	return ctx, cancel
}

// Viper returns the *viper.Viper for the command, creating it if necessary.
func Viper(cmd *cobra.Command) (*viper.Viper, error) {
	return ViperWithCustomConfig(cmd, LoadConfig)
}

// ViperWithCustomConfig is Viper with custom config load logic.
func ViperWithCustomConfig(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) (*viper.Viper, error) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	if vip := vipers[cmd]; vip != nil {
		return vip, nil
	}

	vip := viper.New()
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	prefix := os.Getenv("ENV_PREFIX")
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	if err := loadConfig(cmd, vip); err != nil {
		return nil, err
	}

	vipers[cmd] = vip
	return vip, nil
}

// LoadConfig reads DefaultCfgFilename from the directory given by the
// "config-dir" flag, if both exist.
func LoadConfig(cmd *cobra.Command, vip *viper.Viper) error {
	cfgFlag := cmd.Flags().Lookup("config-dir")
	if cfgFlag == nil || cfgFlag.Value.String() == "" {
		return nil
	}
	path := filepath.Join(os.ExpandEnv(cfgFlag.Value.String()), DefaultCfgFilename)
	exists, err := fileExists(path)
	if err != nil || !exists {
		return err
	}
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil && cmd.Annotations["type"] != "setup" {
		return Error.Wrap(err)
	}
	return nil
}

// decodeResult collects the config keys seen while decoding.
type decodeResult struct {
	broken, missing, used map[string]struct{}
}

func decodeConfigs(cmd *cobra.Command, vip *viper.Viper, configValues []interface{}) decodeResult {
	res := decodeResult{
		broken:  map[string]struct{}{},
		missing: map[string]struct{}{},
		used:    map[string]struct{}{},
	}
	settings := vip.AllSettings()
	for _, config := range configValues {
		r := structs.Decode(settings, config)
		for key := range r.Used {
			res.used[key] = struct{}{}
		}
		for key := range r.Missing {
			res.missing[key] = struct{}{}
		}
		for key := range r.Broken {
			res.broken[key] = struct{}{}
		}
	}

	// keys structs could not place may still match a flag
	for key := range res.missing {
		f := cmd.Flags().Lookup(key)
		if f == nil {
			continue
		}
		val := vip.GetString(key)
		if err := f.Value.Set(val); err != nil {
			res.broken[key] = struct{}{}
			continue
		}
		f.Changed = val != f.DefValue
		res.used[key] = struct{}{}
	}
	for key := range res.used {
		delete(res.missing, key)
	}
	return res
}

func wrap(cmd *cobra.Command, opts *ExecOptions) {
	for _, ccmd := range cmd.Commands() {
		wrap(ccmd, opts)
	}
	if cmd.Run != nil {
		panic("Please use cobra's RunE instead of Run")
	}
	internalRun := cmd.RunE
	if internalRun == nil {
		return
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		vip, err := ViperWithCustomConfig(cmd, opts.LoadConfig)
		if err != nil {
			return err
		}

		commandMtx.Lock()
		configValues := configs[cmd]
		commandMtx.Unlock()

		res := decodeConfigs(cmd, vip, configValues)

		logger := zap.L()
		if opts.NewLogger != nil {
			if logger, err = opts.NewLogger(); err != nil {
				return err
			}
		}
		defer func() { _ = logger.Sync() }()
		defer zap.ReplaceGlobals(logger)()
		defer zap.RedirectStdLog(logger)()

		if vip.ConfigFileUsed() != "" {
			path, err := filepath.Abs(vip.ConfigFileUsed())
			if err != nil {
				path = vip.ConfigFileUsed()
			}
			logger.Info("Configuration loaded", zap.String("Location", path))
		}
		if cmd.Annotations["type"] != "helper" {
			for key := range res.missing {
				logger.Info("Invalid configuration file key", zap.String("Key", key))
			}
		}
		for key := range res.broken {
			if opts.FailOnValueError {
				return Error.New("Invalid configuration file value for key: %s", key)
			}
			logger.Info("Invalid configuration file value for key", zap.String("Key", key))
		}

		defer func() {
			commandMtx.Lock()
			if cancel := cancels[cmd]; cancel != nil {
				cancel()
			}
			delete(contexts, cmd)
			delete(cancels, cmd)
			commandMtx.Unlock()
		}()

		if err := internalRun(cmd, args); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err.Error())
			logger.Error("Unrecoverable error", zap.Error(err))
			return err
		}
		return nil
	}
}

func cmdVersion(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Build)
	return err
}
