package plot

import "github.com/matzehuels/forcegraph/pkg/graph"

// Controller holds the visualization callbacks. Nil fields are no-ops, and
// a nil *Controller is valid.
type Controller struct {
	OnBeforeCompute func(root *graph.Node)
	OnAfterCompute  func()
	OnCreateLabel   func(l Label, n *graph.Node)
	OnPlaceLabel    func(l Label, n *graph.Node)
	OnComplete      func()

	OnBeforePlotLine func(a *graph.Adjacency)
	OnAfterPlotLine  func(a *graph.Adjacency)
	OnBeforePlotNode func(n *graph.Node)
	OnAfterPlotNode  func(n *graph.Node)
}

func (c *Controller) BeforeCompute(root *graph.Node) {
	if c != nil && c.OnBeforeCompute != nil {
		c.OnBeforeCompute(root)
	}
}

func (c *Controller) AfterCompute() {
	if c != nil && c.OnAfterCompute != nil {
		c.OnAfterCompute()
	}
}

func (c *Controller) Complete() {
	if c != nil && c.OnComplete != nil {
		c.OnComplete()
	}
}

func (c *Controller) createLabel(l Label, n *graph.Node) {
	if c != nil && c.OnCreateLabel != nil {
		c.OnCreateLabel(l, n)
	}
}

func (c *Controller) placeLabel(l Label, n *graph.Node) {
	if c != nil && c.OnPlaceLabel != nil {
		c.OnPlaceLabel(l, n)
	}
}

func (c *Controller) beforePlotLine(a *graph.Adjacency) {
	if c != nil && c.OnBeforePlotLine != nil {
		c.OnBeforePlotLine(a)
	}
}

func (c *Controller) afterPlotLine(a *graph.Adjacency) {
	if c != nil && c.OnAfterPlotLine != nil {
		c.OnAfterPlotLine(a)
	}
}

func (c *Controller) beforePlotNode(n *graph.Node) {
	if c != nil && c.OnBeforePlotNode != nil {
		c.OnBeforePlotNode(n)
	}
}

func (c *Controller) afterPlotNode(n *graph.Node) {
	if c != nil && c.OnAfterPlotNode != nil {
		c.OnAfterPlotNode(n)
	}
}
