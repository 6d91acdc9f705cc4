package resolve

import (
	"errtax/internal/ast"
	"errtax/internal/diag"
)

// Item is one step of the walk. Leaf is nil for groups; the emitter
// still wants group items, их строки попадают в дерево документации.
type Item struct {
	Config Config
	Node   ast.Node
	Leaf   *ast.Leaf
}

type frame struct {
	nodes []ast.Node
	cfg   Config
}

// Walk iterates the taxonomy in declaration order, resolving Configs
// as it descends. Use it like bufio.Scanner:
//
//	w, err := resolve.NewWalk(tax, rep)
//	if err != nil { ... }
//	for w.Next() {
//		item := w.Item()
//		...
//	}
//	if err := w.Err(); err != nil { ... }
type Walk struct {
	stack []frame
	rep   diag.Reporter
	item  Item
	err   error
}

// NewWalk resolves the taxonomy's root attributes and positions the
// walk before the first top-level node. A bad root attribute fails
// here, not on the first Next.
func NewWalk(tax *ast.Taxonomy, rep diag.Reporter) (*Walk, error) {
	root, err := merge(Config{}, nil, tax.Attrs, rep)
	if err != nil {
		return nil, err
	}
	return &Walk{
		stack: []frame{{nodes: tax.Roots, cfg: root}},
		rep:   rep,
	}, nil
}

// Next advances to the next node. It returns false when the tree is
// exhausted or an attribute error stopped the walk; check Err.
func (w *Walk) Next() bool {
	if w.err != nil {
		return false
	}
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if len(top.nodes) == 0 {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		node := top.nodes[0]
		top.nodes = top.nodes[1:]

		cfg, err := merge(top.cfg, node, node.NodeAttrs(), w.rep)
		if err != nil {
			w.err = err
			return false
		}

		w.item = Item{Config: cfg, Node: node}
		switch n := node.(type) {
		case *ast.Leaf:
			w.item.Leaf = n
		case *ast.Group:
			w.stack = append(w.stack, frame{nodes: n.Children, cfg: cfg})
		}
		return true
	}
	return false
}

// Item returns the node produced by the last successful Next.
func (w *Walk) Item() Item { return w.item }

// Err returns the error that stopped the walk, if any.
func (w *Walk) Err() error { return w.err }
