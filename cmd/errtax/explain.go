package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"errtax/internal/ast"
	"errtax/internal/driver"
	"errtax/internal/emit"
	"errtax/internal/msgfmt"
)

var explainCmd = &cobra.Command{
	Use:   "explain <file.etx> <CODE>",
	Short: "Explain one variant of a taxonomy by its code",
	Long:  `Explain looks up a variant by its string code (say E01) and prints its severity, templates, field shape, span rule and a sample rendering`,
	Args:  cobra.ExactArgs(2),
	RunE:  runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	filePath, code := args[0], args[1]

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	res, err := compileSingle(cmd, filePath, driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return err
	}
	art := res.Artifact

	var desc *emit.VariantDescriptor
	for i := range art.Descriptors {
		if strings.EqualFold(art.Descriptors[i].Code, code) {
			desc = &art.Descriptors[i]
			break
		}
	}
	if desc == nil {
		known := make([]string, len(art.Descriptors))
		for i := range art.Descriptors {
			known[i] = art.Descriptors[i].Code
		}
		return fmt.Errorf("no variant with code %q in %s (known: %s)", code, art.Name, strings.Join(known, ", "))
	}

	out := os.Stdout
	fmt.Fprintf(out, "%s::%s\n", art.Name, desc.Ident)
	fmt.Fprintf(out, "  code:     %s (%s)\n", desc.Code, desc.Kind)
	fmt.Fprintf(out, "  number:   %q\n", desc.Number)
	fmt.Fprintf(out, "  msg:      %s\n", desc.Message.Source)
	if desc.Label.Source != desc.Message.Source {
		fmt.Fprintf(out, "  label:    %s\n", desc.Label.Source)
	}
	fmt.Fprintf(out, "  fields:   %s\n", describeShape(desc.Shape))
	fmt.Fprintf(out, "  span:     %s\n", describeSpanRule(desc.SpanRule))
	if desc.Nested {
		fmt.Fprintln(out, "  nested:   wraps the diagnostics of its single payload field")
	}
	if desc.Message.HasPlaceholders() {
		fmt.Fprintf(out, "  sample:   %s\n", desc.Message.Render(sampleArgs(desc.Shape)))
	}
	return nil
}

// sampleArgs fills every field with an angle-bracketed stand-in so the
// sample rendering shows where each value lands.
func sampleArgs(shape ast.FieldShape) msgfmt.Args {
	args := msgfmt.Args{Positional: make([]any, len(shape.Fields))}
	if shape.Kind == ast.ShapeNamed {
		args.Named = make(map[string]any, len(shape.Fields))
	}
	for i, f := range shape.Fields {
		if f.Name != "" {
			placeholder := "<" + f.Name + ">"
			args.Named[f.Name] = placeholder
			args.Positional[i] = placeholder
			continue
		}
		args.Positional[i] = fmt.Sprintf("<%d>", i)
	}
	return args
}

func describeShape(shape ast.FieldShape) string {
	switch shape.Kind {
	case ast.ShapeUnit:
		return "none"
	case ast.ShapeNamed:
		parts := make([]string, len(shape.Fields))
		for i, f := range shape.Fields {
			parts[i] = f.Name + ": " + f.Type.Text
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		parts := make([]string, len(shape.Fields))
		for i, f := range shape.Fields {
			parts[i] = f.Type.Text
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

func describeSpanRule(rule emit.SpanRule) string {
	if !rule.FromField {
		return "default (empty span)"
	}
	if rule.Name != "" {
		return fmt.Sprintf("taken from field %q", rule.Name)
	}
	return fmt.Sprintf("taken from field %d", rule.Index)
}
