package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tasklist/config"
)

var (
	cfgFile string
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "tasklist",
		Short: "In-memory task list manager",
		Long: `tasklist keeps a list of tasks in memory for the lifetime of the process.

Tasks can be added, edited, completed and deleted, and viewed through the
all/today/week/month/completed/pending filters, either over HTTP (serve) or
from an interactive terminal session (shell).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
}

// Execute 执行根命令
func Execute(version string) error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(newVersionCmd(version))

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tasklist %s\n", version)
		},
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
