package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	m "pointcov.dev/pkg/pointcov/internal/model"
)

const defaultParseCacheSize = 256

// builtins are the predeclared Go functions. Calls to them are the closest Go
// analog to macro invocations: the compiler expands them in place.
var builtins = map[string]struct{}{
	"append": {}, "cap": {}, "clear": {}, "close": {}, "complex": {}, "copy": {},
	"delete": {}, "imag": {}, "len": {}, "make": {}, "max": {}, "min": {},
	"new": {}, "panic": {}, "print": {}, "println": {}, "real": {}, "recover": {},
}

// GoFileAdapter encapsulates Go-specific parsing so the domain layer can focus
// on classification while delegating compilation details to an
// infrastructure component.
type GoFileAdapter interface {
	Frontend
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
// Converted trees are immutable and cached by content hash.
type LocalGoFileAdapter struct {
	cache *lru.Cache[string, []m.Node]
}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	cache, err := lru.New[string, []m.Node](defaultParseCacheSize)
	if err != nil {
		slog.Warn("parse cache disabled", "error", err)
	}

	return &LocalGoFileAdapter{cache: cache}
}

// Name implements Frontend.
func (a *LocalGoFileAdapter) Name() string {
	return "go"
}

// Supports accepts Go sources, excluding test files.
func (a *LocalGoFileAdapter) Supports(path string) bool {
	return filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go")
}

// Parse builds a syntax tree for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*m.SyntaxFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%x", sha256.Sum256(src))
	if a.cache != nil {
		if nodes, ok := a.cache.Get(key); ok {
			slog.Debug("parse cache hit", "path", path)
			return &m.SyntaxFile{Path: path, Nodes: nodes}, nil
		}
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(path), src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, path, err)
	}

	conv := &goConverter{fset: fset}
	nodes := conv.file(file)

	if a.cache != nil {
		a.cache.Add(key, nodes)
	}

	return &m.SyntaxFile{Path: path, Nodes: nodes}, nil
}

// goConverter maps go/ast nodes onto the closed syntax tree.
type goConverter struct {
	fset     *token.FileSet
	funcName string
	closures int
	// globals counts closures in package-level declarations across the file.
	globals int
}

func (c *goConverter) span(n ast.Node) m.Span {
	start := c.fset.Position(n.Pos())
	end := c.fset.Position(n.End())

	return m.NewSpan(start.Line, start.Column, end.Line, end.Column)
}

func (c *goConverter) file(f *ast.File) []m.Node {
	var nodes []m.Node

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			nodes = append(nodes, c.funcDecl(d))
		case *ast.GenDecl:
			c.funcName, c.closures = "glob", c.globals
			values := c.genDecl(d)
			c.globals = c.closures

			if len(values) > 0 {
				nodes = append(nodes, &m.Expr{Span: c.span(d), Children: values})
			}
		}
	}

	return nodes
}

func (c *goConverter) enter(name string) {
	c.funcName = name
	c.closures = 0
}

func (c *goConverter) funcDecl(d *ast.FuncDecl) m.Node {
	name := d.Name.Name
	if d.Recv != nil && len(d.Recv.List) > 0 {
		name = receiverName(d.Recv.List[0].Type) + "." + name
	}

	c.enter(name)

	fn := &m.Function{Name: name, Span: c.span(d)}
	if d.Body != nil {
		fn.Body = c.stmtList(d.Body.List)
	}

	return fn
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "(*" + receiverName(t.X) + ")"
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	default:
		return "?"
	}
}

func (c *goConverter) genDecl(d *ast.GenDecl) []m.Node {
	var nodes []m.Node

	for _, spec := range d.Specs {
		if vs, ok := spec.(*ast.ValueSpec); ok {
			nodes = append(nodes, c.exprs(vs.Values)...)
		}
	}

	return nodes
}

func (c *goConverter) stmtList(list []ast.Stmt) []m.Node {
	nodes := make([]m.Node, 0, len(list))

	for _, s := range list {
		if n := c.stmt(s); n != nil {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// stmt wraps a statement-level node. Labels are transparent.
func (c *goConverter) stmt(s ast.Stmt) m.Node {
	switch s := s.(type) {
	case *ast.LabeledStmt:
		return c.stmt(s.Stmt)
	case *ast.EmptyStmt:
		return nil
	}

	return &m.Statement{Span: c.span(s), Children: c.stmtParts(s)}
}

// stmtParts returns the nested nodes of a statement without registering the
// statement itself. Loop and conditional headers use it directly.
//
//nolint:cyclop // one case per statement kind
func (c *goConverter) stmtParts(s ast.Stmt) []m.Node {
	switch s := s.(type) {
	case nil:
		return nil
	case *ast.ExprStmt:
		return c.exprs([]ast.Expr{s.X})
	case *ast.AssignStmt:
		return append(c.exprs(s.Lhs), c.exprs(s.Rhs)...)
	case *ast.DeclStmt:
		if gd, ok := s.Decl.(*ast.GenDecl); ok {
			return c.genDecl(gd)
		}

		return nil
	case *ast.ReturnStmt:
		return c.exprs(s.Results)
	case *ast.IncDecStmt:
		return c.exprs([]ast.Expr{s.X})
	case *ast.SendStmt:
		return c.exprs([]ast.Expr{s.Chan, s.Value})
	case *ast.GoStmt:
		return c.exprs([]ast.Expr{s.Call})
	case *ast.DeferStmt:
		return c.exprs([]ast.Expr{s.Call})
	case *ast.BranchStmt:
		return nil
	case *ast.BlockStmt:
		return []m.Node{c.block(s)}
	case *ast.IfStmt:
		return []m.Node{c.ifStmt(s)}
	case *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
		return []m.Node{c.match(s)}
	case *ast.ForStmt, *ast.RangeStmt:
		return []m.Node{c.loop(s)}
	case *ast.LabeledStmt:
		return c.stmtParts(s.Stmt)
	default:
		return []m.Node{&m.Other{Kind: fmt.Sprintf("%T", s), Span: c.span(s)}}
	}
}

func (c *goConverter) block(b *ast.BlockStmt) *m.Block {
	return &m.Block{Span: c.span(b), Body: c.stmtList(b.List)}
}

func (c *goConverter) ifStmt(s *ast.IfStmt) *m.Conditional {
	cond := &m.Conditional{
		Span:   c.span(s),
		Header: c.stmtParts(s.Init),
		Cond:   c.expr(s.Cond),
		Then:   c.block(s.Body),
	}

	switch e := s.Else.(type) {
	case *ast.IfStmt:
		cond.Else = c.ifStmt(e)
	case *ast.BlockStmt:
		cond.Else = c.block(e)
	}

	return cond
}

func (c *goConverter) match(s ast.Stmt) *m.Match {
	mt := &m.Match{Span: c.span(s)}

	var clauses []ast.Stmt

	switch s := s.(type) {
	case *ast.SwitchStmt:
		mt.Header = c.stmtParts(s.Init)
		if s.Tag != nil {
			mt.Scrutinee = c.expr(s.Tag)
		}

		clauses = s.Body.List
	case *ast.TypeSwitchStmt:
		mt.Header = c.stmtParts(s.Init)
		mt.Scrutinee = &m.Expr{Span: c.span(s.Assign), Children: c.stmtParts(s.Assign)}
		clauses = s.Body.List
	case *ast.SelectStmt:
		clauses = s.Body.List
	}

	for _, clause := range clauses {
		switch cl := clause.(type) {
		case *ast.CaseClause:
			mt.Arms = append(mt.Arms, m.Arm{
				Span:     c.span(cl),
				Patterns: c.exprs(cl.List),
				Body:     c.stmtList(cl.Body),
			})
		case *ast.CommClause:
			mt.Arms = append(mt.Arms, m.Arm{
				Span:     c.span(cl),
				Patterns: c.stmtParts(cl.Comm),
				Body:     c.stmtList(cl.Body),
			})
		}
	}

	return mt
}

func (c *goConverter) loop(s ast.Stmt) *m.Loop {
	switch s := s.(type) {
	case *ast.RangeStmt:
		return &m.Loop{
			Kind:   m.LoopCounted,
			Span:   c.span(s),
			Header: c.exprs([]ast.Expr{s.Key, s.Value, s.X}),
			Body:   c.stmtList(s.Body.List),
		}
	case *ast.ForStmt:
		kind := m.LoopCounted

		switch {
		case s.Init == nil && s.Cond == nil && s.Post == nil:
			kind = m.LoopPostChecked
		case s.Init == nil && s.Post == nil:
			kind = m.LoopConditioned
		}

		header := c.stmtParts(s.Init)
		header = append(header, c.exprs([]ast.Expr{s.Cond})...)
		header = append(header, c.stmtParts(s.Post)...)

		return &m.Loop{
			Kind:   kind,
			Span:   c.span(s),
			Header: header,
			Body:   c.stmtList(s.Body.List),
		}
	}

	return nil
}

// exprs converts a list of expressions, dropping nil entries and leaves that
// cannot hold coverage points.
func (c *goConverter) exprs(list []ast.Expr) []m.Node {
	nodes := make([]m.Node, 0, len(list))

	for _, e := range list {
		if e == nil {
			continue
		}

		n := c.expr(e)
		if leaf, ok := n.(*m.Expr); ok && len(leaf.Children) == 0 {
			continue
		}

		nodes = append(nodes, n)
	}

	return nodes
}

//nolint:cyclop // one case per expression kind
func (c *goConverter) expr(e ast.Expr) m.Node {
	span := c.span(e)

	switch e := e.(type) {
	case *ast.BinaryExpr:
		if e.Op == token.LAND || e.Op == token.LOR {
			return &m.Logical{Op: m.LogicalOp(e.Op.String()), Span: span, Left: c.expr(e.X), Right: c.expr(e.Y)}
		}

		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X, e.Y})}
	case *ast.CallExpr:
		if name, ok := builtinName(e.Fun); ok {
			return &m.MacroCall{Name: name, Span: span, Args: c.exprs(e.Args)}
		}

		return &m.Expr{Span: span, Children: c.exprs(append([]ast.Expr{e.Fun}, e.Args...))}
	case *ast.FuncLit:
		c.closures++
		fn := &m.Function{Name: fmt.Sprintf("%s.func%d", c.funcName, c.closures), Span: span}
		fn.Body = c.stmtList(e.Body.List)

		return fn
	case *ast.ParenExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X})}
	case *ast.UnaryExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X})}
	case *ast.StarExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X})}
	case *ast.SelectorExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X})}
	case *ast.IndexExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X, e.Index})}
	case *ast.IndexListExpr:
		return &m.Expr{Span: span, Children: c.exprs(append([]ast.Expr{e.X}, e.Indices...))}
	case *ast.SliceExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X, e.Low, e.High, e.Max})}
	case *ast.TypeAssertExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.X})}
	case *ast.CompositeLit:
		return &m.Expr{Span: span, Children: c.exprs(e.Elts)}
	case *ast.KeyValueExpr:
		return &m.Expr{Span: span, Children: c.exprs([]ast.Expr{e.Key, e.Value})}
	case *ast.Ident, *ast.BasicLit, *ast.Ellipsis,
		*ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType:
		return &m.Expr{Span: span}
	default:
		return &m.Other{Kind: fmt.Sprintf("%T", e), Span: span}
	}
}

// builtinName reports whether fun names an unshadowed predeclared function.
func builtinName(fun ast.Expr) (string, bool) {
	id, ok := fun.(*ast.Ident)
	if !ok || id.Obj != nil {
		return "", false
	}

	if _, ok := builtins[id.Name]; !ok {
		return "", false
	}

	return id.Name, true
}
