package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wjlander/choo/internal/version"
)

var (
	cfgFile   string
	apiURL    string
	apiToken  string
	orgID     string
	verbose   bool
	outputFmt string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "choo-cli",
	Short:   "choo CLI - membership email workflow tool",
	Version: version.String(),
	Long: `choo-cli drives the choo API from the terminal.
Manage email workflows, send test emails, fire signup and renewal
events, and inspect organization delivery settings.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "API URL: %s\n", apiURL)
			fmt.Fprintf(cmd.ErrOrStderr(), "Organization ID: %s\n", orgID)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.choo-cli.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "choo API base URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "operator session token")
	rootCmd.PersistentFlags().StringVar(&orgID, "org", "", "organization ID for settings commands")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "output format (table, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("api_token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("organization_id", rootCmd.PersistentFlags().Lookup("org"))

	rootCmd.AddCommand(workflowCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(orgCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".choo-cli")
	}

	// CHOO_API_URL, CHOO_API_TOKEN, CHOO_ORGANIZATION_ID
	viper.SetEnvPrefix("CHOO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}

	if apiURL == "" {
		apiURL = viper.GetString("api_url")
	}
	if apiToken == "" {
		apiToken = viper.GetString("api_token")
	}
	if orgID == "" {
		orgID = viper.GetString("organization_id")
	}
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	apiURL = strings.TrimRight(apiURL, "/")
}

func newClient() (*ChooClient, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("--token is required (set CHOO_API_TOKEN or use config)")
	}
	return NewClient(apiURL, apiToken), nil
}

func requireOrg() (string, error) {
	if orgID == "" {
		return "", fmt.Errorf("organization ID is required (use --org or CHOO_ORGANIZATION_ID)")
	}
	return orgID, nil
}

// Settings commands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Organization email settings",
	Long:  "View and update email delivery settings for an organization",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get organization settings (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, err := requireOrg()
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		s, err := c.GetSettings(org)
		if err != nil {
			return err
		}
		return formatOutput(cmd.OutOrStdout(), s)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting, e.g. email_provider brevo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		org, err := requireOrg()
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.SetSetting(org, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Show the organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		org, err := requireOrg()
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		o, err := c.GetOrganization(org)
		if err != nil {
			return err
		}
		if outputFmt != "table" {
			return formatOutput(cmd.OutOrStdout(), o)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID: %s\nName: %s\nSlug: %s\nContact: %s\nActive: %t\n", o.ID, o.Name, o.Slug, o.ContactEmail, o.IsActive)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check system health",
	Long:  "Check the health status of the choo API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := NewClient(apiURL, apiToken).CheckHealth()
		if err != nil {
			return err
		}
		if outputFmt != "table" {
			return formatOutput(cmd.OutOrStdout(), h)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "status=%s version=%s db=%s cache=%s\n", h.Status, h.Version, h.DB, h.Cache)
		return nil
	},
}

// Configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the current flags to $HOME/.choo-cli.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("api_url", apiURL)
		viper.Set("api_token", apiToken)
		viper.Set("organization_id", orgID)
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path := home + "/.choo-cli.yaml"
		if err := viper.WriteConfigAs(path); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "API URL: %s\n", apiURL)
		fmt.Fprintf(w, "API Token: %s\n", maskToken(apiToken))
		fmt.Fprintf(w, "Organization ID: %s\n", orgID)
		if viper.ConfigFileUsed() != "" {
			fmt.Fprintf(w, "Config file: %s\n", viper.ConfigFileUsed())
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configShowCmd)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}

func formatOutput(w io.Writer, data any) error {
	switch outputFmt {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		if m, ok := data.(map[string]any); ok {
			for k, v := range m {
				fmt.Fprintf(w, "%-20s: %v\n", k, v)
			}
			return nil
		}
		fmt.Fprintf(w, "%+v\n", data)
		return nil
	}
}

func logVerbose(format string, args ...any) {
	if verbose {
		log.Printf("[VERBOSE] "+format, args...)
	}
}
