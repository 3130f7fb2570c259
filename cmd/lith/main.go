package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFile   string
	platformName string
	verbose      bool
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:           "lith [flags] <file.l>",
	Short:         "Lithium programming language compiler",
	Long:          "Compiles a Lithium source file to a native executable.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return buildProgram(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "out", "output executable path")
	rootCmd.Flags().StringVarP(&platformName, "platform", "p", "linux", "target platform (linux, win, lith)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report build steps and annotate the listing")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "keep intermediate files and dump the parsed tree")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
