package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardstmt/parser"
)

var parseIssuer string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parses statement(s)",
	Long: `Parses a given statement or every PDF in a directory.
Each statement is run through the issuer's extraction pipeline and
the structured result is printed as JSON.`,
	Run: handler,
}

func handler(cmd *cobra.Command, args []string) {
	target := viper.GetString("target")
	if err := parser.ExecuteAgainstPath(target, parseIssuer); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", ".", "PDF file or folder in which cardstmt will scan for statements")
	parseCmd.Flags().StringVarP(&parseIssuer, "issuer", "i", parser.DefaultIssuer, "issuer variant to parse with")
	viper.BindPFlag("target", parseCmd.Flags().Lookup("file"))
}
