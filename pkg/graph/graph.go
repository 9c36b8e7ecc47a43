package graph

import (
	"errors"
	"maps"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrInvalidNodeID is returned by [Store.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Store.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Store.AddAdjacence] when the from
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Store.AddAdjacence] when the to
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Metadata maps are never nil once owned by a [Store].
type Metadata map[string]any

// Prop names one of the three position slots of a [Node].
type Prop int

const (
	PropPos Prop = iota
	PropStartPos
	PropEndPos
)

// AllProps is the property set written by a full layout computation.
var AllProps = []Prop{PropPos, PropStartPos, PropEndPos}

func (p Prop) String() string {
	switch p {
	case PropStartPos:
		return "startPos"
	case PropEndPos:
		return "endPos"
	default:
		return "pos"
	}
}

// ParseProp maps "pos", "startPos" and "endPos" to a [Prop].
func ParseProp(s string) (Prop, bool) {
	switch s {
	case "pos":
		return PropPos, true
	case "startPos", "start":
		return PropStartPos, true
	case "endPos", "end":
		return PropEndPos, true
	}
	return PropPos, false
}

// NodeData holds optional per-node render overrides. Zero values mean "use
// the configured default"; overrides only apply when the node configuration
// is overridable.
type NodeData struct {
	Name      string   // Label text (defaults to the node ID)
	Type      string   // Shape type override
	Color     string   // Fill/stroke colour override
	LineWidth float64  // Line width override
	Dim       float64  // Radius override for circles
	Width     float64  // Width override for rectangles
	Height    float64  // Height override for rectangles
	Meta      Metadata // Free-form payload
}

// EdgeData holds optional per-edge render overrides. Both directional
// records of one edge share the same EdgeData.
type EdgeData struct {
	Type      string
	Color     string
	LineWidth float64
	Meta      Metadata
}

// Node is a vertex with its layout and render state.
//
// Nodes are owned by a [Store]; the simulator and renderers only mutate the
// position, alpha and Visited fields.
type Node struct {
	ID string

	Pos      r2.Vec // Current, rendered position
	StartPos r2.Vec // Interpolation start
	EndPos   r2.Vec // Interpolation target

	Alpha      float64
	StartAlpha float64
	EndAlpha   float64

	Drawn    bool // Participates in rendering
	Exist    bool // Participates in simulation and topology
	Selected bool

	// Visited is the parity flag used by the render walker. It is only
	// meaningful between two complete render passes.
	Visited bool

	Data NodeData

	adj []*Adjacency
}

// Get returns the position stored in slot p.
func (n *Node) Get(p Prop) r2.Vec {
	switch p {
	case PropStartPos:
		return n.StartPos
	case PropEndPos:
		return n.EndPos
	default:
		return n.Pos
	}
}

// Set writes v into every given slot. With no slots it writes all three.
func (n *Node) Set(v r2.Vec, props ...Prop) {
	if len(props) == 0 {
		props = AllProps
	}
	for _, p := range props {
		switch p {
		case PropStartPos:
			n.StartPos = v
		case PropEndPos:
			n.EndPos = v
		default:
			n.Pos = v
		}
	}
}

// Label returns the display text for the node.
func (n *Node) Label() string {
	if n.Data.Name != "" {
		return n.Data.Name
	}
	return n.ID
}

// Adjacencies returns the node's outgoing adjacency records in insertion
// order. The slice must be treated as read-only.
func (n *Node) Adjacencies() []*Adjacency { return n.adj }

// AdjacentTo reports whether the node has an adjacency to id.
func (n *Node) AdjacentTo(id string) bool {
	return slices.ContainsFunc(n.adj, func(a *Adjacency) bool { return a.NodeTo.ID == id })
}

// Adjacency is one directed storage record of an undirected edge. Adding an
// edge a-b stores a→b on a and b→a on b.
type Adjacency struct {
	NodeFrom *Node
	NodeTo   *Node

	Alpha      float64
	StartAlpha float64
	EndAlpha   float64

	Data *EdgeData
}

// IsLoop reports whether the adjacency connects a node to itself.
func (a *Adjacency) IsLoop() bool { return a.NodeFrom == a.NodeTo }

// Store owns the nodes and adjacencies of one graph.
//
// Nodes are kept in an insertion-ordered arena so that every traversal
// (simulation, rendering, export) is deterministic.
//
// The zero value is not usable - use [New]. Store is not safe for concurrent
// use without external synchronization.
type Store struct {
	nodes []*Node
	index map[string]int
	meta  Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Store {
	if meta == nil {
		meta = Metadata{}
	}
	return &Store{index: make(map[string]int), meta: meta}
}

// Meta returns the graph-level metadata map.
func (s *Store) Meta() Metadata { return s.meta }

// AddNode adds a node with default render state: fully opaque, drawn and
// existing, positioned at the origin.
func (s *Store) AddNode(id string, data NodeData) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := s.index[id]; exists {
		return nil, ErrDuplicateNodeID
	}
	if data.Meta == nil {
		data.Meta = Metadata{}
	}
	n := &Node{
		ID:         id,
		Alpha:      1,
		StartAlpha: 1,
		EndAlpha:   1,
		Drawn:      true,
		Exist:      true,
		Data:       data,
	}
	s.index[id] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return n, nil
}

// AddAdjacence connects two existing nodes. Adding a pair that is already
// connected returns the existing from→to record unchanged. A self-loop is
// stored as a single record.
func (s *Store) AddAdjacence(from, to string, data *EdgeData) (*Adjacency, error) {
	a, ok := s.Node(from)
	if !ok {
		return nil, ErrUnknownSourceNode
	}
	b, ok := s.Node(to)
	if !ok {
		return nil, ErrUnknownTargetNode
	}
	if existing, ok := s.Adjacence(from, to); ok {
		return existing, nil
	}
	if data == nil {
		data = &EdgeData{}
	}
	if data.Meta == nil {
		data.Meta = Metadata{}
	}
	fwd := newAdjacency(a, b, data)
	a.adj = append(a.adj, fwd)
	if a != b {
		b.adj = append(b.adj, newAdjacency(b, a, data))
	}
	return fwd, nil
}

func newAdjacency(from, to *Node, data *EdgeData) *Adjacency {
	return &Adjacency{
		NodeFrom:   from,
		NodeTo:     to,
		Alpha:      1,
		StartAlpha: 1,
		EndAlpha:   1,
		Data:       data,
	}
}

// RemoveAdjacence removes both records of the edge a-b if it exists.
func (s *Store) RemoveAdjacence(a, b string) {
	if n, ok := s.Node(a); ok {
		n.adj = slices.DeleteFunc(n.adj, func(x *Adjacency) bool { return x.NodeTo.ID == b })
	}
	if n, ok := s.Node(b); ok {
		n.adj = slices.DeleteFunc(n.adj, func(x *Adjacency) bool { return x.NodeTo.ID == a })
	}
}

// RemoveNode removes a node and every adjacency touching it.
// No error is returned if the node does not exist.
func (s *Store) RemoveNode(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	n := s.nodes[i]
	for _, a := range n.adj {
		if a.NodeTo != n {
			a.NodeTo.adj = slices.DeleteFunc(a.NodeTo.adj, func(x *Adjacency) bool { return x.NodeTo == n })
		}
	}
	n.adj = nil
	s.nodes = slices.Delete(s.nodes, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.nodes); j++ {
		s.index[s.nodes[j].ID] = j
	}
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (s *Store) Node(id string) (*Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.nodes[i], true
}

// HasNode reports whether a node with the given ID exists.
func (s *Store) HasNode(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Root returns the first node added to the graph, or nil for an empty graph.
func (s *Store) Root() *Node {
	if len(s.nodes) == 0 {
		return nil
	}
	return s.nodes[0]
}

// Nodes returns all nodes in insertion order. The slice is a copy but the
// nodes are shared with the graph.
func (s *Store) Nodes() []*Node { return slices.Clone(s.nodes) }

// EachNode calls fn for every node in insertion order.
func (s *Store) EachNode(fn func(*Node)) {
	for _, n := range s.nodes {
		fn(n)
	}
}

// EachAdjacency calls fn for every adjacency record of n in insertion order.
func (s *Store) EachAdjacency(n *Node, fn func(*Adjacency)) {
	for _, a := range n.adj {
		fn(a)
	}
}

// Adjacencies returns the adjacency records of the node with the given ID.
// Returns nil if the node doesn't exist.
func (s *Store) Adjacencies(id string) []*Adjacency {
	n, ok := s.Node(id)
	if !ok {
		return nil
	}
	return n.adj
}

// Adjacence returns the a→b record, if the nodes are connected.
func (s *Store) Adjacence(a, b string) (*Adjacency, bool) {
	n, ok := s.Node(a)
	if !ok {
		return nil, false
	}
	for _, x := range n.adj {
		if x.NodeTo.ID == b {
			return x, true
		}
	}
	return nil, false
}

// Edges returns one adjacency record per undirected edge, in the order the
// edges are first reached walking nodes in insertion order.
func (s *Store) Edges() []*Adjacency {
	var out []*Adjacency
	seen := make(map[*Node]bool, len(s.nodes))
	for _, n := range s.nodes {
		for _, a := range n.adj {
			if !seen[a.NodeTo] || a.NodeTo == n {
				out = append(out, a)
			}
		}
		seen[n] = true
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of undirected edges in the graph.
func (s *Store) EdgeCount() int { return len(s.Edges()) }

// NodeIDs returns node IDs in insertion order.
func (s *Store) NodeIDs() []string {
	ids := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Clone returns a deep copy of the graph. Edge data is copied once per
// undirected edge so both records of the clone share it again.
func (s *Store) Clone() *Store {
	c := New(maps.Clone(s.meta))
	for _, n := range s.nodes {
		cp := *n
		cp.adj = nil
		cp.Data.Meta = maps.Clone(n.Data.Meta)
		c.index[cp.ID] = len(c.nodes)
		c.nodes = append(c.nodes, &cp)
	}
	for _, e := range s.Edges() {
		data := *e.Data
		data.Meta = maps.Clone(e.Data.Meta)
		fwd, _ := c.AddAdjacence(e.NodeFrom.ID, e.NodeTo.ID, &data)
		fwd.Alpha, fwd.StartAlpha, fwd.EndAlpha = e.Alpha, e.StartAlpha, e.EndAlpha
		if rev, ok := s.Adjacence(e.NodeTo.ID, e.NodeFrom.ID); ok && !e.IsLoop() {
			crev, _ := c.Adjacence(e.NodeTo.ID, e.NodeFrom.ID)
			crev.Alpha, crev.StartAlpha, crev.EndAlpha = rev.Alpha, rev.StartAlpha, rev.EndAlpha
		}
	}
	return c
}

// Positions returns a snapshot of slot p for every node.
func (s *Store) Positions(p Prop) map[string]r2.Vec {
	out := make(map[string]r2.Vec, len(s.nodes))
	for _, n := range s.nodes {
		out[n.ID] = n.Get(p)
	}
	return out
}
