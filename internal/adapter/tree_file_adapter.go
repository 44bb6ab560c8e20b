package adapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

const treeFileSuffix = ".tree.yaml"

// TreeFileAdapter reads language-neutral syntax trees produced by external
// parsers. A document looks like:
//
//	path: src/lib.rs
//	nodes:
//	  - kind: function
//	    name: abs
//	    span: 1:1-7:2
//	    body: [...]
type TreeFileAdapter struct{}

// NewTreeFileAdapter constructs a TreeFileAdapter.
func NewTreeFileAdapter() *TreeFileAdapter {
	return &TreeFileAdapter{}
}

// Name implements Frontend.
func (a *TreeFileAdapter) Name() string {
	return "tree"
}

// Supports accepts *.tree.yaml documents.
func (a *TreeFileAdapter) Supports(path string) bool {
	return strings.HasSuffix(path, treeFileSuffix)
}

type treeDocument struct {
	Path  string     `yaml:"path"`
	Nodes []treeNode `yaml:"nodes"`
}

type treeNode struct {
	Kind      string     `yaml:"kind"`
	Name      string     `yaml:"name,omitempty"`
	Span      m.Span     `yaml:"span"`
	Op        string     `yaml:"op,omitempty"`
	Loop      string     `yaml:"loop,omitempty"`
	Children  []treeNode `yaml:"children,omitempty"`
	Header    []treeNode `yaml:"header,omitempty"`
	Body      []treeNode `yaml:"body,omitempty"`
	Args      []treeNode `yaml:"args,omitempty"`
	Patterns  []treeNode `yaml:"patterns,omitempty"`
	Arms      []treeNode `yaml:"arms,omitempty"`
	Cond      *treeNode  `yaml:"cond,omitempty"`
	Then      *treeNode  `yaml:"then,omitempty"`
	Else      *treeNode  `yaml:"else,omitempty"`
	Scrutinee *treeNode  `yaml:"scrutinee,omitempty"`
	Left      *treeNode  `yaml:"left,omitempty"`
	Right     *treeNode  `yaml:"right,omitempty"`
}

// Parse decodes a tree document. The document's own path, when set, names the
// file in reports.
func (a *TreeFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*m.SyntaxFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc treeDocument

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, path, err)
	}

	file := &m.SyntaxFile{Path: path}
	if doc.Path != "" {
		file.Path = m.Path(doc.Path)
	}

	for i := range doc.Nodes {
		n, err := convertTreeNode(&doc.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, path, err)
		}

		file.Nodes = append(file.Nodes, n)
	}

	return file, nil
}

func convertTreeNodes(list []treeNode) ([]m.Node, error) {
	nodes := make([]m.Node, 0, len(list))

	for i := range list {
		n, err := convertTreeNode(&list[i])
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

// convertOptional keeps absent nodes as a nil interface.
func convertOptional(t *treeNode) (m.Node, error) {
	if t == nil {
		return nil, nil
	}

	return convertTreeNode(t)
}

//nolint:cyclop,gocognit // one case per node kind
func convertTreeNode(t *treeNode) (m.Node, error) {
	var err error

	all := func(list []treeNode) []m.Node {
		if err != nil {
			return nil
		}

		var nodes []m.Node
		nodes, err = convertTreeNodes(list)

		return nodes
	}

	one := func(node *treeNode) m.Node {
		if err != nil {
			return nil
		}

		var n m.Node
		n, err = convertOptional(node)

		return n
	}

	var out m.Node

	switch t.Kind {
	case "function":
		out = &m.Function{Name: t.Name, Span: t.Span, Body: all(t.Body)}
	case "statement":
		out = &m.Statement{Span: t.Span, Children: all(t.Children)}
	case "block":
		out = &m.Block{Span: t.Span, Body: all(t.Body)}
	case "conditional":
		cond := &m.Conditional{Span: t.Span, Header: all(t.Header), Cond: one(t.Cond), Else: one(t.Else)}
		if t.Then != nil {
			cond.Then = &m.Block{Span: t.Then.Span, Body: all(t.Then.Body)}
		}

		out = cond
	case "match":
		mt := &m.Match{Span: t.Span, Header: all(t.Header), Scrutinee: one(t.Scrutinee)}
		for i := range t.Arms {
			arm := &t.Arms[i]
			mt.Arms = append(mt.Arms, m.Arm{Span: arm.Span, Patterns: all(arm.Patterns), Body: all(arm.Body)})
		}

		out = mt
	case "loop":
		kind, kerr := parseLoopKind(t.Loop)
		if kerr != nil {
			return nil, kerr
		}

		out = &m.Loop{Kind: kind, Span: t.Span, Header: all(t.Header), Body: all(t.Body)}
	case "macro":
		out = &m.MacroCall{Name: t.Name, Span: t.Span, Args: all(t.Args)}
	case "logical":
		op := m.LogicalOp(t.Op)
		if op != m.LogicalAnd && op != m.LogicalOr {
			out = &m.Expr{Span: t.Span, Children: append(all(nodesOf(t.Left)), all(nodesOf(t.Right))...)}
			break
		}

		out = &m.Logical{Op: op, Span: t.Span, Left: one(t.Left), Right: one(t.Right)}
	case "expr":
		out = &m.Expr{Span: t.Span, Children: all(t.Children)}
	default:
		out = &m.Other{Kind: t.Kind, Span: t.Span}
	}

	if err != nil {
		return nil, err
	}

	return out, nil
}

func nodesOf(t *treeNode) []treeNode {
	if t == nil {
		return nil
	}

	return []treeNode{*t}
}

func parseLoopKind(name string) (m.LoopKind, error) {
	for _, k := range []m.LoopKind{m.LoopCounted, m.LoopConditioned, m.LoopPostChecked} {
		if k.String() == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown loop kind %q", name)
}
