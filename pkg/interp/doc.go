// Package interp blends node state between the start and end of an
// animation.
//
// A [Registry] maps mode names to [Func] strategies. The built-in modes are:
//
//   - linear: Cartesian interpolation of startPos to endPos
//   - polar: interpolation in angle/radius space, taking the short way
//     round the circle
//   - moebius: a conformal Möbius transform of startPos, used by
//     hyperbolic views
//   - fade:nodes: alpha blend of the node itself
//   - fade:vertex: alpha blend of every adjacency of the node
//
// Several modes may be active at once; they run in order on every node on
// every tick.
//
// The package also carries the easing curves ([Transition]) that map clock
// progress to interpolation progress.
package interp
