// Package cmd provides the command-line interface of the ucode-ts tool.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tree-sitter-ucode/internal/application/common/logging"
	"tree-sitter-ucode/internal/application/common/slogger"
	"tree-sitter-ucode/internal/application/service"
	"tree-sitter-ucode/internal/config"
	"tree-sitter-ucode/internal/version"
)

// cliState is shared by the commands of one root command.
type cliState struct {
	cfgFile string
	viper   *viper.Viper
	cfg     *config.Config
	svc     *service.ParseService
}

// newRootCmd creates the root command with every subcommand attached.
func newRootCmd() *cobra.Command {
	state := &cliState{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   version.ApplicationName,
		Short: "Parse and inspect ucode sources",
		Long: `ucode-ts parses ucode scripts into concrete syntax trees.

It prints trees as S-expressions, JSON or YAML, reports syntax errors,
lists highlight captures, demonstrates incremental reparsing and exports
the node types of the grammar.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.initConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&state.cfgFile, "config", "", "config file (default: ./configs/ucode.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultParserTimeout, "Parse timeout, zero disables it")

	for key, flag := range map[string]string{
		"log.level":      "log-level",
		"log.format":     "log-format",
		"parser.timeout": "timeout",
	} {
		if err := state.viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
		}
	}

	rootCmd.AddCommand(
		newParseCmd(state),
		newCheckCmd(state),
		newHighlightCmd(state),
		newReparseCmd(state),
		newNodeTypesCmd(state),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (s *cliState) initConfig(cmd *cobra.Command) error {
	v := s.viper
	config.SetDefaults(v)

	if s.cfgFile != "" {
		v.SetConfigFile(s.cfgFile)
	} else {
		v.SetConfigName("ucode")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("UCODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults and environment
	}

	cfg, err := config.New(v)
	if err != nil {
		return err
	}
	s.cfg = cfg

	if err := slogger.Configure(logging.Config{
		Level:  strings.ToUpper(cfg.Log.Level),
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	svc, err := service.NewParseService(cfg)
	if err != nil {
		return err
	}
	s.svc = svc

	slogger.Debug(cmd.Context(), "Configuration loaded", slogger.Fields{
		"config_file":   v.ConfigFileUsed(),
		"output_format": cfg.Output.Format,
		"concurrency":   cfg.Parser.Concurrency,
	})
	return nil
}

// readSource reads path, or standard input when path is "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return src, nil
}
