package domain

import (
	"fmt"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

// Walker classifies syntax tree nodes and registers coverage points in
// pre-order: a parent is registered before its descendants and siblings are
// registered left to right.
type Walker struct {
	registry *Registry
}

// NewWalker creates a Walker that registers into registry.
func NewWalker(registry *Registry) *Walker {
	return &Walker{registry: registry}
}

// Walk registers every coverage point of file.
func (w *Walker) Walk(file *m.SyntaxFile) error {
	if file == nil {
		return fmt.Errorf("%w: nil file", ErrMalformedTree)
	}

	return w.walkList(file.Nodes)
}

// register marks registry rejections as malformed input.
func (w *Walker) register(category m.Category, span m.Span, label string) (int, error) {
	id, err := w.registry.Register(category, span, label)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}

	return id, nil
}

func (w *Walker) walkList(nodes []m.Node) error {
	for _, n := range nodes {
		if err := w.walk(n); err != nil {
			return err
		}
	}

	return nil
}

//nolint:cyclop // one case per node kind
func (w *Walker) walk(n m.Node) error {
	switch n := n.(type) {
	case nil:
		return nil
	case *m.Function:
		if _, err := w.register(m.CategoryFunction, n.Span, n.Name); err != nil {
			return err
		}

		return w.walkList(n.Body)
	case *m.Statement:
		if _, err := w.register(m.CategoryStatement, n.Span, ""); err != nil {
			return err
		}

		return w.walkList(n.Children)
	case *m.Conditional:
		return w.walkConditional(n)
	case *m.Match:
		return w.walkMatch(n)
	case *m.Loop:
		if _, err := w.register(m.CategoryLoop, n.Span, n.Kind.String()); err != nil {
			return err
		}

		if err := w.walkList(n.Header); err != nil {
			return err
		}

		return w.walkList(n.Body)
	case *m.MacroCall:
		if _, err := w.register(m.CategoryMacro, n.Span, n.Name); err != nil {
			return err
		}

		return w.walkList(n.Args)
	case *m.Logical:
		return w.walkLogical(n)
	case *m.Block:
		return w.walkList(n.Body)
	case *m.Expr:
		return w.walkList(n.Children)
	case *m.Other:
		return nil
	default:
		return nil
	}
}

func (w *Walker) walkConditional(n *m.Conditional) error {
	if n.Cond == nil || n.Then == nil {
		return fmt.Errorf("%w: conditional at %s without condition or body", ErrMalformedTree, n.Span)
	}

	cond := n.Cond.Extent()

	id, err := w.register(m.CategoryBranch, cond, "")
	if err != nil {
		return err
	}

	if err := w.walkList(n.Header); err != nil {
		return err
	}

	if err := w.walk(n.Cond); err != nil {
		return err
	}

	if err := w.walkList(n.Then.Body); err != nil {
		return err
	}

	end := n.Then.Span.End

	if n.Else != nil {
		if err := w.walk(n.Else); err != nil {
			return err
		}

		end = n.Else.Extent().End
	}

	return w.registry.SetExtent(id, m.Span{Start: cond.Start, End: end})
}

func (w *Walker) walkMatch(n *m.Match) error {
	id, err := w.register(m.CategoryMatch, n.Span, "")
	if err != nil {
		return err
	}

	if err := w.walkList(n.Header); err != nil {
		return err
	}

	if err := w.walk(n.Scrutinee); err != nil {
		return err
	}

	for _, arm := range n.Arms {
		if err := w.walkList(arm.Patterns); err != nil {
			return err
		}

		if err := w.walkList(arm.Body); err != nil {
			return err
		}
	}

	return w.registry.SetArmCount(id, len(n.Arms))
}

// walkLogical records && and || expressions with their operand spans. The
// operands themselves are not walked.
func (w *Walker) walkLogical(n *m.Logical) error {
	if n.Op != m.LogicalAnd && n.Op != m.LogicalOr {
		return nil
	}

	if n.Left == nil || n.Right == nil {
		return fmt.Errorf("%w: %s at %s missing an operand", ErrMalformedTree, n.Op, n.Span)
	}

	id, err := w.register(m.CategoryBinaryConditional, n.Span, string(n.Op))
	if err != nil {
		return err
	}

	if err := w.registry.RegisterChild(m.CategoryBinaryConditional, id, SlotLeft, n.Left.Extent()); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}

	if err := w.registry.RegisterChild(m.CategoryBinaryConditional, id, SlotRight, n.Right.Extent()); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}

	return nil
}
