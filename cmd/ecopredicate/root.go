package ecopredicate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/soundprediction/ecopredicate/pkg/config"
	"github.com/soundprediction/ecopredicate/pkg/factstore"
	"github.com/soundprediction/ecopredicate/pkg/formats"
	"github.com/soundprediction/ecopredicate/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ecopredicate",
		Short: "Ecopredicate: ground fact store for relational learning",
		Long: `Ecopredicate loads, converts and inspects ground logical facts in the
file formats used by relational learning tools: delimited tables, Alchemy
signed-literal files and Aleph positive/negative example files.`,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecopredicate.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("delimiter", ",", "field delimiter of the csv table format")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("formats.delimiter", rootCmd.PersistentFlags().Lookup("delimiter"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ecopredicate" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ecopredicate")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	codec  *formats.Codec
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(cmd.ErrOrStderr(), logger.Options{Level: level, Format: cfg.Log.Format})
	codec, err := formats.New(&formats.Config{Delimiter: cfg.Formats.Delimiter}, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: log, codec: codec}, nil
}

// formatFlag resolves a --format style flag, falling back to the configured default.
func (rt *app) formatFlag(cmd *cobra.Command, name string) (formats.Format, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		value = rt.cfg.Formats.Default
	}
	return formats.ParseFormat(value)
}

// storeType resolves the --fuzzy flag against the configured store type.
func (rt *app) storeType(cmd *cobra.Command) factstore.StoreType {
	if fuzzy, _ := cmd.Flags().GetBool("fuzzy"); fuzzy {
		return factstore.StoreTypeFuzzy
	}
	return factstore.StoreType(rt.cfg.Store.Type)
}

// load reads a store of the resolved type from path.
func (rt *app) load(storeType factstore.StoreType, format formats.Format, path string) (factstore.Store, error) {
	s, err := factstore.NewStore(&factstore.StoreConfig{Type: storeType})
	if err != nil {
		return nil, err
	}
	switch db := s.(type) {
	case *factstore.BooleanStore:
		err = rt.codec.ReadBoolean(format, path, db)
	case *factstore.FuzzyStore:
		err = rt.codec.ReadFuzzy(format, path, db)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// write writes s to path in format.
func (rt *app) write(s factstore.Store, format formats.Format, path string) error {
	switch db := s.(type) {
	case *factstore.BooleanStore:
		return rt.codec.WriteBoolean(format, db, path)
	case *factstore.FuzzyStore:
		return rt.codec.WriteFuzzy(format, db, path)
	default:
		return fmt.Errorf("unsupported store %T", s)
	}
}
