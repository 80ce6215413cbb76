package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfg = viper.New()

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fiberscheduler",
		Short:         "Drive demonstration scenarios against the fiberscheduler package",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().Uint32("job-count", 256, "maximum jobs outstanding at once (power of two)")
	root.PersistentFlags().Uint32("fiber-count", 32, "fiber pool size")
	root.PersistentFlags().String("config", "", "optional config file (yaml/json/toml)")

	_ = cfg.BindPFlag("job_count", root.PersistentFlags().Lookup("job-count"))
	_ = cfg.BindPFlag("fiber_count", root.PersistentFlags().Lookup("fiber-count"))
	cfg.SetEnvPrefix("FIBERSCHEDULER")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	cobra.OnInitialize(func() {
		if path := root.PersistentFlags().Lookup("config").Value.String(); path != "" {
			cfg.SetConfigFile(path)
			_ = cfg.ReadInConfig()
		}
	})

	root.AddCommand(newRunCommand())
	return root
}
