package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"errtax/internal/diagfmt"
	"errtax/internal/driver"
	"errtax/internal/gen"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file.etx|directory>",
	Short: "Compile taxonomy sources into Go error definitions",
	Long:  `Compile turns taxonomy sources into Go files with one error type per variant; diagnostics go to stderr, generated code to the output path`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().String("out", "", "output file (single input) or directory (directory input); default: next to the input")
	compileCmd.Flags().String("pkg", "", "package clause of the generated files (default errdefs)")
	compileCmd.Flags().String("runtime", "", "import path of the errtax runtime package")
	compileCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	compileCmd.Flags().Bool("cache", false, "reuse compiled artifacts from the disk cache")
	compileCmd.Flags().Bool("dry-run", false, "print generated code to stdout instead of writing files")
}

// runCompile executes the "compile" command over a file or a directory
// of taxonomy sources. Every input produces one Go file. Paths with
// compile errors are reported and skipped; the process exits non-zero.
func runCompile(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	pkgName, err := cmd.Flags().GetString("pkg")
	if err != nil {
		return fmt.Errorf("failed to get pkg flag: %w", err)
	}
	runtimePath, err := cmd.Flags().GetString("runtime")
	if err != nil {
		return fmt.Errorf("failed to get runtime flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))

	// Манифест даёт out/package по умолчанию, явные флаги сильнее.
	if manifest, ok, err := loadManifest(""); err != nil {
		return err
	} else if ok {
		if outPath == "" && manifest.Config.Generate.Out != "" {
			outPath = filepath.Join(manifest.Root, filepath.FromSlash(manifest.Config.Generate.Out))
		}
		if pkgName == "" {
			pkgName = manifest.Config.Generate.Package
		}
	}

	opts := driver.Options{MaxDiagnostics: maxDiagnostics}
	if useCache {
		cache, err := driver.OpenDiskCache("errtax")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var results []driver.Result
	if st.IsDir() {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
		_, results, err = driver.CompileDir(cmd.Context(), filePath, opts, jobs)
		if err != nil {
			return fmt.Errorf("compilation failed: %w", err)
		}
		if outPath != "" && !dryRun {
			if err := os.MkdirAll(outPath, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
	} else {
		results = []driver.Result{driver.Compile(filePath, opts)}
	}

	genOpts := gen.Options{Package: pkgName, RuntimePath: runtimePath}
	prettyOpts := diagfmt.PrettyOpts{Color: useColor, Context: 2}

	exitCode := 0
	for _, res := range results {
		if res.Bag.Len() > 0 {
			res.Bag.Sort()
			diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, prettyOpts)
		}
		if res.Err != nil || res.Artifact == nil {
			exitCode = 1
			continue
		}

		code, err := gen.Generate(res.Artifact, genOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Path, err)
			exitCode = 1
			continue
		}

		if dryRun {
			fmt.Fprint(os.Stdout, string(code))
		} else {
			target := outputTarget(res.Path, outPath, st.IsDir())
			if err := os.WriteFile(target, code, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "%s: failed to write output: %v\n", res.Path, err)
				exitCode = 1
				continue
			}
			if !quiet {
				note := ""
				if res.FromCache {
					note = " (cached)"
				}
				fmt.Fprintf(os.Stdout, "wrote %s%s\n", target, note)
			}
		}
		if showTimings {
			printTimings(os.Stdout, res.Timing)
		}
	}

	if exitCode != 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

// outputTarget picks the path of the generated file. In directory mode
// outPath is a directory; for a single input it is the file itself,
// unless it names an existing directory.
func outputTarget(inputPath, outPath string, dirMode bool) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), driver.TaxonomyExt) + ".go"
	if outPath == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	if dirMode {
		return filepath.Join(outPath, base)
	}
	if st, err := os.Stat(outPath); err == nil && st.IsDir() {
		return filepath.Join(outPath, base)
	}
	return outPath
}
