package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	server  string
	name    string
	verbose bool
}

func (c *Config) validate() error {
	if c.server == "" {
		return errors.New("--server must not be empty")
	}
	if !strings.HasPrefix(c.server, "ws://") && !strings.HasPrefix(c.server, "wss://") {
		return fmt.Errorf("invalid server URL (must be ws:// or wss://): %s", c.server)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizroom",
		Short:         "Interactive terminal client for a quizroom coordination server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.server, "server", "s", "ws://localhost:4000/ws", "websocket URL of the coordination server (env: QUIZROOM_SERVER)")
	fs.StringVarP(&cfg.name, "name", "n", "", "display name, generated when empty (env: QUIZROOM_NAME)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log SDK internals (env: QUIZROOM_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizroom v{{.Version}}\n")

	return cmd
}
