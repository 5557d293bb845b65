package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bowtie-json-schema/cravat/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "cravat",
	Short: "Development task runner for Bowtie",
	Long: `Cravat runs Bowtie's development sessions: the test suite, linting,
documentation builds, packaging checks and benchmarks. Each session gets
its own provisioned Python environment, the same way CI runs them.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is cravat.yaml in the checkout)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().String("color", "", "colored output: auto, always or never")
	_ = viper.BindPFlag("output.color", rootCmd.PersistentFlags().Lookup("color"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cravat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CRAVAT")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CRAVAT_PYTHON_SUPPORTED for python.supported
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()

	applyColorMode(viper.GetString("output.color"))
}

// applyColorMode pins lipgloss's color profile when color is forced on
// or off; "auto" keeps terminal detection.
func applyColorMode(mode string) {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
