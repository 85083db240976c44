package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set by build flags).
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nanoc",
	Short: "A from-scratch C compiler front end and LLVM-IR backend",
	Long: `nanoc tokenizes, parses, and lowers (preprocessed) C source into an
internal basic-block IR, then hands that IR to a pluggable backend for
object, assembly, textual-LLVM-IR, or linked-executable output.

nanoc assumes its input has already been through a C preprocessor: no
macro expansion, token pasting, or #include resolution happens here.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
