package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grantcheck/internal/adapters/driving/mcp"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the grantcheck version",
	Long: `Print the grantcheck version together with the MCP server version and
the Go toolchain it was built with. Use --short for the bare version string.`,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version)
			return
		}
		fmt.Fprintf(out, "grantcheck version %s\n", version)
		fmt.Fprintf(out, "  mcp server: %s\n", mcp.Version)
		fmt.Fprintf(out, "  go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version string")
	rootCmd.AddCommand(versionCmd)
}
