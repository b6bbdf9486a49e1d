package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/facegate/internal/fingerprint"
)

var digestCmd = &cobra.Command{
	Use:   "digest <file>...",
	Short: "Print content digests of image files",
	Long: `Print the digest the API reports for each file, one per line as
"<digest>  <path>".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	return writeDigests(cmd.OutOrStdout(), args)
}

func writeDigests(w io.Writer, paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		fmt.Fprintf(w, "%s  %s\n", fingerprint.Compute(data), path)
	}
	return nil
}
