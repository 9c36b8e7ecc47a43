package plot

import (
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Dedup selects how a render pass avoids drawing an undirected edge twice.
type Dedup string

const (
	// DedupVisitedPairs keeps a per-pass set of drawn node pairs.
	DedupVisitedPairs Dedup = "pairs"
	// DedupParity compares each neighbour's Visited flag with the root's.
	// Every node is flipped once per pass, so it is only correct when every
	// Plot call walks the whole graph.
	DedupParity Dedup = "parity"
)

// ParseDedup validates a strategy name. The empty string selects parity.
func ParseDedup(s string) (Dedup, error) {
	switch Dedup(s) {
	case "", DedupParity:
		return DedupParity, nil
	case DedupVisitedPairs:
		return DedupVisitedPairs, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown dedup strategy %q (want %q or %q)", s, DedupParity, DedupVisitedPairs)
}

// LabelThreshold is the node opacity from which labels are shown.
const LabelThreshold = 0.95

// Options controls one render pass.
type Options struct {
	ClearCanvas bool
	WithLabels  bool
}

// Plotter walks a graph and draws it onto a surface.
type Plotter struct {
	Surface    canvas.Surface
	Node       NodeConfig
	Edge       EdgeConfig
	Shapes     *Shapes
	Labels     *Labels // nil disables labels
	Controller *Controller
	Dedup      Dedup
	// Root is the node whose Visited flag is the parity reference. Empty
	// selects the first node.
	Root string
}

// NewPlotter returns a plotter with default styling and built-in shapes.
func NewPlotter(s canvas.Surface) *Plotter {
	return &Plotter{
		Surface: s,
		Node:    DefaultNodeConfig(),
		Edge:    DefaultEdgeConfig(),
		Shapes:  NewShapes(),
		Dedup:   DedupParity,
	}
}

// Plot draws every edge whose endpoints are drawn and every drawn node,
// each exactly once. Edge and node hooks fire only when not animating.
// An unknown shape type aborts the pass with an UNKNOWN_SHAPE error.
func (p *Plotter) Plot(g *graph.Store, opts Options, animating bool) error {
	if opts.ClearCanvas {
		p.Surface.Clear()
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	if p.Dedup == DedupVisitedPairs {
		return p.plotPairs(g, nodes, opts, animating)
	}
	return p.plotParity(g, nodes, opts, animating)
}

func (p *Plotter) plotParity(g *graph.Store, nodes []*graph.Node, opts Options, animating bool) error {
	root := g.Root()
	if p.Root != "" {
		if n, ok := g.Node(p.Root); ok {
			root = n
		}
	}
	t := root.Visited
	for i, n := range nodes {
		var err error
		for _, a := range n.Adjacencies() {
			if a.NodeTo.Visited == t {
				if err = p.edge(a, animating); err != nil {
					break
				}
			}
		}
		if err == nil {
			err = p.node(n, opts, animating)
		}
		if err != nil {
			// Keep the parity contract for the next pass.
			for _, rest := range nodes[i:] {
				rest.Visited = !t
			}
			return err
		}
		n.Visited = !t
	}
	return nil
}

func (p *Plotter) plotPairs(g *graph.Store, nodes []*graph.Node, opts Options, animating bool) error {
	visited := make(map[string]map[string]bool, len(nodes))
	mark := func(a, b string) {
		if visited[a] == nil {
			visited[a] = make(map[string]bool)
		}
		visited[a][b] = true
	}
	for _, n := range nodes {
		for _, a := range n.Adjacencies() {
			from, to := a.NodeFrom.ID, a.NodeTo.ID
			if visited[from][to] || visited[to][from] {
				continue
			}
			if err := p.edge(a, animating); err != nil {
				return err
			}
			mark(from, to)
			mark(to, from)
		}
		if err := p.node(n, opts, animating); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plotter) edge(a *graph.Adjacency, animating bool) error {
	if !a.NodeFrom.Drawn || !a.NodeTo.Drawn {
		return nil
	}
	if !animating {
		p.Controller.beforePlotLine(a)
	}
	ctx := p.Surface.Context()
	ctx.Save()
	ctx.SetGlobalAlpha(min(a.NodeFrom.Alpha, a.NodeTo.Alpha, a.Alpha))
	err := p.PlotLine(a)
	ctx.Restore()
	if err != nil {
		return err
	}
	if !animating {
		p.Controller.afterPlotLine(a)
	}
	return nil
}

func (p *Plotter) node(n *graph.Node, opts Options, animating bool) error {
	ctx := p.Surface.Context()
	ctx.Save()
	defer ctx.Restore()
	if n.Drawn {
		ctx.SetGlobalAlpha(n.Alpha)
		if !animating {
			p.Controller.beforePlotNode(n)
		}
		if err := p.PlotNode(n); err != nil {
			return err
		}
		if !animating {
			p.Controller.afterPlotNode(n)
		}
	}
	if p.Labels != nil && opts.WithLabels && !p.Labels.Hidden() {
		if n.Drawn && ctx.GlobalAlpha() >= LabelThreshold {
			p.Labels.PlotLabel(n, p.Surface.Size())
		} else {
			p.Labels.HideLabel([]*graph.Node{n}, false)
		}
	}
	return nil
}

// PlotNode sets the node's colour and line width and draws its shape.
func (p *Plotter) PlotNode(n *graph.Node) error {
	st := p.Node.Resolve(n)
	shape, err := p.Shapes.Node(st.Type)
	if err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}
	ctx := p.Surface.Context()
	ctx.SetLineWidth(st.LineWidth)
	ctx.SetFillStyle(st.Color)
	ctx.SetStrokeStyle(st.Color)
	shape.Render(n, st, p.Surface)
	return nil
}

// PlotLine sets the edge's colour and line width and draws its shape.
func (p *Plotter) PlotLine(a *graph.Adjacency) error {
	st := p.Edge.Resolve(a)
	shape, err := p.Shapes.Edge(st.Type)
	if err != nil {
		return fmt.Errorf("edge %s-%s: %w", a.NodeFrom.ID, a.NodeTo.ID, err)
	}
	ctx := p.Surface.Context()
	ctx.SetLineWidth(st.LineWidth)
	ctx.SetFillStyle(st.Color)
	ctx.SetStrokeStyle(st.Color)
	shape.Render(a, st, p.Surface)
	return nil
}

// ResetVisited clears every parity flag, for callers that render a graph
// partially and want to restart the parity contract.
func ResetVisited(g *graph.Store) {
	g.EachNode(func(n *graph.Node) { n.Visited = false })
}
