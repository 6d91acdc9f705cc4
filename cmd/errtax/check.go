package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"errtax/internal/diag"
	"errtax/internal/diagfmt"
	"errtax/internal/driver"
	"errtax/internal/emit"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.etx|directory>",
	Short: "Check taxonomy sources without generating code",
	Long:  `Check compiles taxonomy sources, reports diagnostics and verifies that variant codes are unique within each taxonomy`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Bool("no-uniq", false, "skip the duplicate-code check")
	checkCmd.Flags().Bool("strict-codes", false, "treat duplicate variant codes as errors")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// runCheck executes the "check" command: it compiles the provided path
// (single file or directory), appends duplicate-code findings, formats
// everything in the chosen output format, and exits with a non-zero
// status when any diagnostics contain errors.
func runCheck(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noUniq, err := cmd.Flags().GetBool("no-uniq")
	if err != nil {
		return fmt.Errorf("failed to get no-uniq flag: %w", err)
	}
	strictCodes, err := cmd.Flags().GetBool("strict-codes")
	if err != nil {
		return fmt.Errorf("failed to get strict-codes flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	// Манифест подкладывает strict_codes, явный флаг сильнее.
	if manifest, ok, err := loadManifest(""); err != nil {
		return err
	} else if ok && !cmd.Flags().Changed("strict-codes") {
		strictCodes = manifest.Config.Check.StrictCodes
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))

	opts := driver.Options{MaxDiagnostics: maxDiagnostics}

	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}

	collect := func(ctx context.Context) ([]driver.Result, error) {
		if st.IsDir() {
			jobs, err := cmd.Flags().GetInt("jobs")
			if err != nil {
				return nil, fmt.Errorf("failed to get jobs flag: %w", err)
			}
			_, results, err := driver.CompileDir(ctx, filePath, opts, jobs)
			if err != nil {
				return nil, fmt.Errorf("check failed: %w", err)
			}
			return results, nil
		}
		return []driver.Result{driver.Compile(filePath, opts)}, nil
	}

	results, resultErr := collect(cmd.Context())
	cleanup()
	if resultErr != nil {
		return resultErr
	}

	exitCode := 0
	for i := range results {
		res := &results[i]
		if !noUniq && res.Artifact != nil {
			appendUniqFindings(res, strictCodes)
		}
		res.Bag.Sort()
		if res.Bag.HasErrors() {
			exitCode = 1
		}
	}

	switch format {
	case "pretty":
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		}
		for idx, res := range results {
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			if len(results) > 1 {
				fmt.Fprintf(os.Stdout, "== %s ==\n", res.Path)
			}
			diagfmt.Pretty(os.Stdout, res.Bag, res.FileSet, prettyOpts)
			if showTimings {
				printTimings(os.Stdout, res.Timing)
			}
		}
	case "short":
		for _, res := range results {
			output := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, withNotes)
			if output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, res := range results {
			output[res.Path] = diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, jsonOpts)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if exitCode != 0 {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

// appendUniqFindings adds duplicate-code diagnostics to the result bag,
// upgraded to errors under --strict-codes.
func appendUniqFindings(res *driver.Result, strict bool) {
	for _, d := range emit.CheckUniqueCodes(res.Artifact) {
		if strict {
			d.Severity = diag.SevError
		}
		res.Bag.Add(d)
	}
}
