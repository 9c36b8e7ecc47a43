package plot

import (
	"math"
	"slices"
	"sync"

	"github.com/matzehuels/forcegraph/pkg/canvas"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Label is one label element on a [LabelSurface].
type Label interface {
	ID() string
	SetClass(class string)
	SetPosition(x, y int)
	SetVisible(visible bool)
	SetContent(text string)
}

// LabelSurface is the container labels live in.
type LabelSurface interface {
	// SetContainerVisible shows or hides every label at once.
	SetContainerVisible(visible bool)
	Create(id string) Label
	Lookup(id string) (Label, bool)
	Remove(id string)
}

// Labels places, hides and garbage-collects node labels. Labels are keyed by
// node ID and created lazily on first use.
type Labels struct {
	surface    LabelSurface
	controller *Controller
	cache      map[string]Label
	hidden     bool
}

// NewLabels creates a label manager over surface. The controller may be nil.
func NewLabels(surface LabelSurface, c *Controller) *Labels {
	return &Labels{surface: surface, controller: c, cache: make(map[string]Label)}
}

// Hidden reports whether labels were hidden with [Labels.HideLabels].
func (l *Labels) Hidden() bool { return l.hidden }

// Label returns the cached label for id, falling back to the surface.
func (l *Labels) Label(id string) (Label, bool) {
	if lab, ok := l.cache[id]; ok {
		return lab, true
	}
	lab, ok := l.surface.Lookup(id)
	if ok {
		l.cache[id] = lab
	}
	return lab, ok
}

// PlotLabel creates the label for n if needed and places it.
func (l *Labels) PlotLabel(n *graph.Node, size canvas.Size) Label {
	lab, ok := l.Label(n.ID)
	if !ok {
		lab = l.surface.Create(n.ID)
		lab.SetClass("node")
		lab.SetContent(n.Label())
		l.controller.createLabel(lab, n)
		l.cache[n.ID] = lab
	}
	l.PlaceLabel(lab, n, size)
	return lab
}

// PlaceLabel moves lab to n's screen position. The layout origin is the
// centre of the canvas; labels outside the canvas are hidden.
func (l *Labels) PlaceLabel(lab Label, n *graph.Node, size canvas.Size) {
	x, y := ScreenPosition(n, size)
	lab.SetPosition(x, y)
	lab.SetVisible(FitsInCanvas(x, y, size))
	l.controller.placeLabel(lab, n)
}

// ScreenPosition converts n's layout position to canvas pixels.
func ScreenPosition(n *graph.Node, size canvas.Size) (x, y int) {
	return int(math.Round(n.Pos.X + size.Width/2)), int(math.Round(n.Pos.Y + size.Height/2))
}

// FitsInCanvas reports whether (x, y) lies within [0,w)×[0,h).
func FitsInCanvas(x, y int, size canvas.Size) bool {
	fx, fy := float64(x), float64(y)
	return !(fx >= size.Width || fx < 0 || fy >= size.Height || fy < 0)
}

// HideLabel shows (show == true) or hides the existing labels of nodes.
func (l *Labels) HideLabel(nodes []*graph.Node, show bool) {
	for _, n := range nodes {
		if lab, ok := l.Label(n.ID); ok {
			lab.SetVisible(show)
		}
	}
}

// HideLabels hides or shows the whole label container.
func (l *Labels) HideLabels(hide bool) {
	l.surface.SetContainerVisible(!hide)
	l.hidden = hide
}

// ClearLabels disposes labels whose node is no longer in g, or every label
// when force is set.
func (l *Labels) ClearLabels(g *graph.Store, force bool) {
	for id := range l.cache {
		if force || g == nil || !g.HasNode(id) {
			l.DisposeLabel(id)
		}
	}
}

// DisposeLabel removes the label for id.
func (l *Labels) DisposeLabel(id string) {
	l.surface.Remove(id)
	delete(l.cache, id)
}

// MemoryLabels is an in-memory [LabelSurface]. The SVG renderer reads it
// back to emit text elements.
type MemoryLabels struct {
	mu      sync.Mutex
	visible bool
	labels  map[string]*MemoryLabel
	order   []string
}

// NewMemoryLabels returns an empty, visible label container.
func NewMemoryLabels() *MemoryLabels {
	return &MemoryLabels{visible: true, labels: make(map[string]*MemoryLabel)}
}

// MemoryLabel is a label held by [MemoryLabels].
type MemoryLabel struct {
	id      string
	Class   string
	X, Y    int
	Visible bool
	Text    string
}

func (m *MemoryLabel) ID() string           { return m.id }
func (m *MemoryLabel) SetClass(c string)    { m.Class = c }
func (m *MemoryLabel) SetPosition(x, y int) { m.X, m.Y = x, y }
func (m *MemoryLabel) SetVisible(v bool)    { m.Visible = v }
func (m *MemoryLabel) SetContent(s string)  { m.Text = s }

func (m *MemoryLabels) SetContainerVisible(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = v
}

// ContainerVisible reports the container display state.
func (m *MemoryLabels) ContainerVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *MemoryLabels) Create(id string) Label {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lab, ok := m.labels[id]; ok {
		return lab
	}
	lab := &MemoryLabel{id: id, Visible: true}
	m.labels[id] = lab
	m.order = append(m.order, id)
	return lab
}

func (m *MemoryLabels) Lookup(id string) (Label, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lab, ok := m.labels[id]
	if !ok {
		return nil, false
	}
	return lab, true
}

func (m *MemoryLabels) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.labels[id]; !ok {
		return
	}
	delete(m.labels, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
}

// Len returns the number of labels in the container.
func (m *MemoryLabels) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.labels)
}

// Visible returns copies of the displayed labels in creation order. It is
// empty while the container is hidden.
func (m *MemoryLabels) Visible() []MemoryLabel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.visible {
		return nil
	}
	var out []MemoryLabel
	for _, id := range m.order {
		if lab := m.labels[id]; lab.Visible {
			out = append(out, *lab)
		}
	}
	return out
}
