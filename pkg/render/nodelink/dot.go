package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/plot"
)

// pointsPerInch converts layout units (pixels) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes metadata in node labels. When false, only the
	// node label is shown.
	Detailed bool

	// Pinned places nodes at their current layout positions and lets
	// Graphviz only route edges. When false, neato computes its own layout.
	Pinned bool

	// Node and Edge style the diagram the same way the canvas plotter does.
	// Zero values select the plot defaults.
	Node plot.NodeConfig
	Edge plot.EdgeConfig
}

func (o Options) withDefaults() Options {
	if o.Node.Type == "" {
		o.Node = plot.DefaultNodeConfig()
	}
	if o.Edge.Type == "" {
		o.Edge = plot.DefaultEdgeConfig()
	}
	return o
}

var dotShapes = map[string]string{
	plot.ShapeCircle:    "circle",
	plot.ShapeSquare:    "square",
	plot.ShapeRectangle: "box",
}

// ToDOT converts a graph to Graphviz DOT format as an undirected graph for
// the neato engine. The resulting DOT string can be rendered using
// [RenderSVG] or [RenderPNG].
//
// Nodes that do not exist are omitted along with their edges; nodes that
// are not drawn are kept but invisible so pinned layouts stay intact.
func ToDOT(g *graph.Store, opts Options) string {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [style=filled, fontsize=10, fixedsize=false];\n")
	if opts.Pinned {
		buf.WriteString("  splines=false;\n")
	}
	buf.WriteString("\n")

	g.EachNode(func(n *graph.Node) {
		if !n.Exist {
			return
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	})

	buf.WriteString("\n")
	for _, a := range g.Edges() {
		if !a.NodeFrom.Exist || !a.NodeTo.Exist {
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", a.NodeFrom.ID, a.NodeTo.ID, strings.Join(edgeAttrs(a, opts), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	if !detailed || len(n.Data.Meta) == 0 {
		return n.Label()
	}
	parts := make([]string, 0, len(n.Data.Meta))
	for _, k := range slices.Sorted(maps.Keys(n.Data.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Data.Meta[k]))
	}
	return n.Label() + "\n" + strings.Join(parts, "\n")
}

func nodeAttrs(n *graph.Node, opts Options) []string {
	st := opts.Node.Resolve(n)
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", st.Color),
		fmt.Sprintf("color=%q", st.Color),
		fmt.Sprintf("penwidth=%s", num(st.LineWidth)),
	}
	if shape, ok := dotShapes[st.Type]; ok {
		attrs = append(attrs, "shape="+shape)
	} else {
		attrs = append(attrs, "shape=point")
	}
	if st.Type == plot.ShapeNone || !n.Drawn {
		attrs = append(attrs, "style=invis")
	}
	if opts.Pinned {
		// Graphviz y grows upwards.
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"",
			num(n.Pos.X/pointsPerInch), num(-n.Pos.Y/pointsPerInch)))
	}
	return attrs
}

func edgeAttrs(a *graph.Adjacency, opts Options) []string {
	st := opts.Edge.Resolve(a)
	attrs := []string{
		fmt.Sprintf("color=%q", st.Color),
		fmt.Sprintf("penwidth=%s", num(st.LineWidth)),
	}
	if st.Type == plot.ShapeArrow {
		attrs = append(attrs, "dir=forward")
	}
	if st.Type == plot.ShapeNone || !a.NodeFrom.Drawn || !a.NodeTo.Drawn {
		attrs = append(attrs, "style=invis")
	}
	return attrs
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
