package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"voicedesk/config"
)

var (
	configFile string
	host       string
	port       int

	rootCmd = &cobra.Command{
		Use:           "voicedesk",
		Short:         "Voice assistant with text to speech, speech to text and voice cloning",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "path to a yaml config file")
	rootCmd.Flags().StringVar(&host, "host", "", "interface host (overrides config)")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "interface port (overrides config)")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	if cfg.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Warnln("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
