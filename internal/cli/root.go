package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kakashi3lite/newscurator/internal/model"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "newscurator",
	Short: "NewsCurator - evidence-aware news curation and perspective analysis",
	Long: `NewsCurator ingests news articles and runs them through a staged
analysis pipeline:

- Evidence clustering: groups mutually consistent articles and scores
  how well a summary is supported by its sources
- Narrative clustering: assembles multi-article story arcs from shared
  entities and temporal proximity
- Perspective analysis: splits each story into contrasting viewpoints
  with a side-by-side comparison and a balance score
- Personalization: ranks the feed for one reader, degrading to a
  credibility-sorted list when ranking is unavailable

The pipeline always delivers a well-formed result; quality shortfalls
surface as warnings, never as errors.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for NewsCurator.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newscurator v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.newscurator/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.newscurator")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match NEWSCURATOR_*
	viper.SetEnvPrefix("NEWSCURATOR")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file over the built-in defaults.
func loadConfig() model.Config {
	cfg := model.DefaultConfig()
	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: invalid config file, using defaults: %v\n", err)
			return model.DefaultConfig()
		}
	}
	return cfg
}
