package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"errtax/internal/diagfmt"
	"errtax/internal/driver"
)

var docsCmd = &cobra.Command{
	Use:   "docs [flags] <file.etx>",
	Short: "Print the documentation listing of a taxonomy",
	Long:  `Docs compiles one taxonomy source and prints its hierarchical markdown listing: one line per group and variant, codes included`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().Bool("json", false, "emit the doc lines as JSON instead of markdown")
}

func runDocs(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	res, err := compileSingle(cmd, args[0], driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return err
	}

	if asJSON {
		type docLineJSON struct {
			Indent int    `json:"indent"`
			Text   string `json:"text"`
		}
		lines := make([]docLineJSON, len(res.Artifact.Docs))
		for i, line := range res.Artifact.Docs {
			lines[i] = docLineJSON{Indent: line.Indent, Text: line.Text}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(lines); err != nil {
			return fmt.Errorf("failed to encode doc lines: %w", err)
		}
		return nil
	}

	fmt.Fprint(os.Stdout, res.Artifact.DocMarkdown())
	return nil
}

// compileSingle compiles one taxonomy file for the read-only commands
// (docs, explain, browse): diagnostics go to stderr, a fatal one turns
// into the silent-error exit.
func compileSingle(cmd *cobra.Command, path string, opts driver.Options) (driver.Result, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return driver.Result{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))

	res := driver.Compile(path, opts)
	if res.Bag.Len() > 0 {
		res.Bag.Sort()
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: useColor, Context: 2})
	}
	if res.Err != nil || res.Artifact == nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return res, fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return res, nil
}
