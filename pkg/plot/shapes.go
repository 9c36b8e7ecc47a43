package plot

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Built-in shape names.
const (
	ShapeNone      = "none"
	ShapeCircle    = "circle"
	ShapeSquare    = "square"
	ShapeRectangle = "rectangle"
	ShapeLine      = "line"
	ShapeArrow     = "arrow"
)

// NodeShape draws one node. Paint state (alpha, colour, line width) is set
// by the plotter before Render is called.
type NodeShape interface {
	Render(n *graph.Node, st NodeStyle, s canvas.Surface)
}

// EdgeShape draws one edge.
type EdgeShape interface {
	Render(a *graph.Adjacency, st EdgeStyle, s canvas.Surface)
}

// NodeFunc adapts a function to [NodeShape].
type NodeFunc func(n *graph.Node, st NodeStyle, s canvas.Surface)

func (f NodeFunc) Render(n *graph.Node, st NodeStyle, s canvas.Surface) { f(n, st, s) }

// EdgeFunc adapts a function to [EdgeShape].
type EdgeFunc func(a *graph.Adjacency, st EdgeStyle, s canvas.Surface)

func (f EdgeFunc) Render(a *graph.Adjacency, st EdgeStyle, s canvas.Surface) { f(a, st, s) }

// Shapes maps type names to draw routines. It is safe for concurrent use.
type Shapes struct {
	mu    sync.RWMutex
	nodes map[string]NodeShape
	edges map[string]EdgeShape
}

// NewShapes returns a registry holding the built-in shapes.
func NewShapes() *Shapes {
	return &Shapes{
		nodes: map[string]NodeShape{
			ShapeNone:      NodeFunc(func(*graph.Node, NodeStyle, canvas.Surface) {}),
			ShapeCircle:    NodeFunc(Circle),
			ShapeSquare:    NodeFunc(Square),
			ShapeRectangle: NodeFunc(Rectangle),
		},
		edges: map[string]EdgeShape{
			ShapeNone:  EdgeFunc(func(*graph.Adjacency, EdgeStyle, canvas.Surface) {}),
			ShapeLine:  EdgeFunc(Line),
			ShapeArrow: EdgeFunc(Arrow),
		},
	}
}

// RegisterNode adds or replaces a node shape.
func (s *Shapes) RegisterNode(name string, shape NodeShape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[name] = shape
}

// RegisterEdge adds or replaces an edge shape.
func (s *Shapes) RegisterEdge(name string, shape EdgeShape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[name] = shape
}

// Node returns the node shape registered as name. The error for an unknown
// name lists the registered ones.
func (s *Shapes) Node(name string) (NodeShape, error) {
	s.mu.RLock()
	shape, ok := s.nodes[name]
	s.mu.RUnlock()
	if ok {
		return shape, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownShape, "unknown node shape type %q (known: %s)",
		name, strings.Join(s.NodeNames(), ", "))
}

// Edge returns the edge shape registered as name.
func (s *Shapes) Edge(name string) (EdgeShape, error) {
	s.mu.RLock()
	shape, ok := s.edges[name]
	s.mu.RUnlock()
	if ok {
		return shape, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownShape, "unknown edge shape type %q (known: %s)",
		name, strings.Join(s.EdgeNames(), ", "))
}

// NodeNames returns the registered node shape names, sorted.
func (s *Shapes) NodeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.nodes))
}

// EdgeNames returns the registered edge shape names, sorted.
func (s *Shapes) EdgeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.edges))
}

// Circle fills a disc of radius Dim.
func Circle(n *graph.Node, st NodeStyle, s canvas.Surface) {
	canvas.Path(s, canvas.Fill, func(ctx canvas.Context) {
		ctx.Arc(n.Pos.X, n.Pos.Y, st.Dim, 0, canvas.FullCircle, true)
	})
}

// Square fills a square of side 2·Dim centred on the node.
func Square(n *graph.Node, st NodeStyle, s canvas.Surface) {
	canvas.Path(s, canvas.Fill, func(ctx canvas.Context) {
		ctx.Rect(n.Pos.X-st.Dim, n.Pos.Y-st.Dim, 2*st.Dim, 2*st.Dim)
	})
}

// Rectangle fills a Width×Height rectangle centred on the node.
func Rectangle(n *graph.Node, st NodeStyle, s canvas.Surface) {
	canvas.Path(s, canvas.Fill, func(ctx canvas.Context) {
		ctx.Rect(n.Pos.X-st.Width/2, n.Pos.Y-st.Height/2, st.Width, st.Height)
	})
}

// Line strokes a segment between the two endpoints.
func Line(a *graph.Adjacency, _ EdgeStyle, s canvas.Surface) {
	from, to := a.NodeFrom.Pos, a.NodeTo.Pos
	canvas.Path(s, canvas.Stroke, func(ctx canvas.Context) {
		ctx.MoveTo(from.X, from.Y)
		ctx.LineTo(to.X, to.Y)
	})
}

// Arrow strokes a line and fills a Dim-sized head at the target end.
func Arrow(a *graph.Adjacency, st EdgeStyle, s canvas.Surface) {
	from, to := a.NodeFrom.Pos, a.NodeTo.Pos
	Line(a, st, s)

	v := r2.Sub(to, from)
	norm := r2.Norm(v)
	if norm == 0 {
		return
	}
	v = r2.Scale(st.Dim/norm, v)
	mid := r2.Sub(to, v)
	normal := r2.Vec{X: -v.Y / 2, Y: v.X / 2}
	v1, v2 := r2.Add(mid, normal), r2.Sub(mid, normal)
	canvas.Path(s, canvas.Fill, func(ctx canvas.Context) {
		ctx.MoveTo(v1.X, v1.Y)
		ctx.LineTo(v2.X, v2.Y)
		ctx.LineTo(to.X, to.Y)
		ctx.ClosePath()
	})
}
