package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unidoc/unipdf/v3/common/license"
)

// Embedded default configuration. Every scalar field is an ordered
// candidate list: specific labels first, generic fallbacks last, and
// the first match wins. Compiled case-insensitively at load time.
const defaultConfigYAML = `
statement:
  CHASE_CC:
    issuer: Chase
    patterns:
      card_last_4:
        - '\*{4}(\d{4})'
        - 'ending in (\d{4})'
        - 'card ending (\d{4})'
        - 'account ending (\d{4})'
      billing_cycle:
        - 'statement period[:\s]+([^-\n]+?)\s*-\s*([^-\n]+)'
        - 'billing period[:\s]+([^-\n]+?)\s*-\s*([^-\n]+)'
        - 'period[:\s]+([^-\n]+?)\s*-\s*([^-\n]+)'
      due_date:
        - 'due date[:\s]+(\d{1,2}/\d{1,2}/\d{4})'
        - 'payment due[:\s]+(\d{1,2}/\d{1,2}/\d{4})'
        - 'due[:\s]+(\d{1,2}/\d{1,2}/\d{4})'
      total_balance:
        - 'total balance[:\s]+\$?([\d,]+\.?\d*)'
        - 'current balance[:\s]+\$?([\d,]+\.?\d*)'
        - 'balance[:\s]+\$?([\d,]+\.?\d*)'
    table:
      header_dates:
        - date
        - transaction date
      header_descriptions:
        - description
        - merchant
      header_amounts:
        - amount`

var (
	cfgFile string
	verbose bool
	rootCmd = &cobra.Command{
		Use:   "cardstmt [filename]",
		Short: "Extract structured data from credit card statement PDFs",
		Long: `cardstmt is a utility to extract structured data (card number,
billing cycle, due date, balance, transactions) out of credit card
statement PDFs.`,
		Args: cobra.ArbitraryArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 1 {
				viper.Set("target", args[0])
				handler(parseCmd, []string{})
				return
			}
			cmd.Help()
		},
	}
)

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging, initLicense)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default is ./.cardstmt.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogging() {
	if !verbose {
		log.SetOutput(io.Discard)
	} else {
		log.SetFlags(log.Ltime | log.Lmsgprefix)
		log.SetPrefix("INFO: ")
	}
}

// initLicense applies the unipdf metered license key when one is
// available, checking a local .env first. Table extraction still runs
// without it for evaluation use.
func initLicense() {
	godotenv.Load()

	if key := os.Getenv("UNIDOC_LICENSE_API_KEY"); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			log.Printf("WARN could not apply unidoc license key: %v", err)
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory and home directory
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".cardstmt")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, use embedded default configuration
			viper.SetConfigType("yaml")
			if err := viper.ReadConfig(bytes.NewBufferString(defaultConfigYAML)); err != nil {
				fmt.Printf("Error loading embedded configuration: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Printf("Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}
}
