package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/varoOP/reelshelf/internal/app"
	"github.com/varoOP/reelshelf/internal/format"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reelshelf",
	Short: "Browse movies and tv shows from TMDB",
	Long: `Reelshelf aggregates TMDB genres, discovery, trending and search results
into display-ready items and keeps a per-user favorites list.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.reelshelf.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "json", "output format: json or yaml")
	rootCmd.PersistentFlags().String("language", "", "TMDB language, e.g. en-US")
	rootCmd.PersistentFlags().String("db-dir", "", "directory holding reelshelf.db")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")

	// Bind flags to viper
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	viper.BindPFlag("db_dir", rootCmd.PersistentFlags().Lookup("db-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	dirs = append(dirs, ".")

	viper.SetEnvPrefix("REELSHELF")
	viper.AutomaticEnv()

	if err := readConfigFile(viper.GetViper(), cfgFile, dirs); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading config file:", err)
	}
}

// readConfigFile loads cfgFile, or else the first of .reelshelf.yaml and
// config.yaml found in dirs. Finding no file at all is not an error.
func readConfigFile(v *viper.Viper, cfgFile string, dirs []string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return v.ReadInConfig()
	}

	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigType("yaml")

	var notFound viper.ConfigFileNotFoundError
	for _, name := range []string{".reelshelf", "config"} {
		v.SetConfigName(name)
		err := v.ReadInConfig()
		if err == nil {
			return nil
		}
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// withApp builds the application, runs fn and prints its result.
func withApp(cmd *cobra.Command, fn func(a *app.App) (any, error)) error {
	out, err := format.Parse(viper.GetString("output"))
	if err != nil {
		return err
	}

	application, err := app.NewApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	result, err := fn(application)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	return format.Write(cmd.OutOrStdout(), out, result)
}
