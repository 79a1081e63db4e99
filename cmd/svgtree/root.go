package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benoitkugler/svgtree/internal/config"
	"github.com/benoitkugler/svgtree/internal/logging"
	"github.com/benoitkugler/svgtree/svgconv"
	"github.com/benoitkugler/svgtree/svgtree"
)

// app is shared by the commands, and filled
// before any of them runs.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	logger *zap.Logger
}

// newRootCmd returns an isolated command tree.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New(), logger: zap.NewNop()}
	config.SetDefaults(a.v)

	rootCmd := &cobra.Command{
		Use:           "svgtree",
		Short:         "Resolve SVG documents into render-ready trees",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./svgtree.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Float64("dpi", 96, "resolution used for absolute units")
	flags.String("error-mode", "ignore", "policy for unsupported elements: ignore, warn or strict")
	flags.String("resources-dir", "", "directory used to resolve relative image paths (default is the input directory)")
	bindFlag(a.v, "logger.level", flags.Lookup("log-level"))
	bindFlag(a.v, "convert.dpi", flags.Lookup("dpi"))
	bindFlag(a.v, "convert.error_mode", flags.Lookup("error-mode"))
	bindFlag(a.v, "convert.resources_dir", flags.Lookup("resources-dir"))

	rootCmd.AddCommand(newInfoCmd(a), newRenderCmd(a), newPDFCmd(a))
	return rootCmd, a
}

// initialize reads in config file and ENV variables if set.
func (a *app) initialize(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("svgtree")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("SVGTREE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logger, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	return nil
}

// parse converts the given file with the configured options.
func (a *app) parse(filename string) (*svgtree.Tree, error) {
	opts := a.cfg.Convert.Options(a.logger.With(zap.String("file", filename)))
	tree, err := svgconv.ParseFile(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", filename, err)
	}
	return tree, nil
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err) // only happens for a nil flag
	}
}

func main() {
	rootCmd, a := newRootCmd()
	err := rootCmd.Execute()
	_ = a.logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
