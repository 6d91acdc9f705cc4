package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"errtax/internal/ast"
	"errtax/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed taxonomy:
// 1) the taxonomy span is non-empty and within file content bounds
// 2) every node span is non-empty and fully contained in its parent's span
// 3) the taxonomy span covers the union of root spans (if any roots exist)
func CheckSpanInvariants(tax *ast.Taxonomy, sf *source.File) error {
	if tax == nil || sf == nil {
		return fmt.Errorf("nil taxonomy or file")
	}

	// 1) taxonomy span sanity
	root := tax.Span
	if root.End <= root.Start {
		return fmt.Errorf("taxonomy span is empty: %v", root)
	}
	if root.File != sf.ID {
		return fmt.Errorf("taxonomy span points to different file id: got=%d want=%d", root.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.End > lenContent {
		return fmt.Errorf("taxonomy span end beyond content: %d > %d", root.End, lenContent)
	}

	// 2) node spans nested inside their parents
	if err := checkNodes(root, tax.Roots, sf.ID); err != nil {
		return err
	}

	// 3) taxonomy covers union of roots
	var union source.Span
	var haveRoot bool
	for _, n := range tax.Roots {
		sp := n.NodeSpan()
		if !haveRoot {
			union = sp
			haveRoot = true
		} else {
			union = union.Cover(sp)
		}
	}
	if haveRoot {
		if union.Start < root.Start || union.End > root.End {
			return fmt.Errorf("taxonomy span %v does not cover union of roots %v", root, union)
		}
	}
	return nil
}

func checkNodes(parent source.Span, nodes []ast.Node, file source.FileID) error {
	for _, n := range nodes {
		sp := n.NodeSpan()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty node span: %v", sp)
		}
		if sp.File != file {
			return fmt.Errorf("node span file mismatch: got=%d want=%d", sp.File, file)
		}
		if sp.Start < parent.Start || sp.End > parent.End {
			return fmt.Errorf("node span %v is outside parent span %v", sp, parent)
		}
		if g, ok := n.(*ast.Group); ok {
			if err := checkNodes(g.Span, g.Children, file); err != nil {
				return err
			}
		}
	}
	return nil
}
