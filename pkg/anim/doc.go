// Package anim schedules frame-driven animations.
//
// A [Scheduler] runs two kinds of drivers against an injectable [Clock]:
//
//   - [Scheduler.Start] runs a bounded animation for a fixed duration and
//     frame rate, easing progress through an [interp.Transition].
//   - [Scheduler.Sequence] repeats a step at a fixed interval until a
//     condition fails.
//
// Both return a [Run] handle for cancellation. Canceling freezes the
// animated state where it is; completion callbacks do not fire.
//
// [RunFrames] drives the same callbacks synchronously for a fixed number
// of frames, which is what offline frame export uses. [ManualClock] makes
// the timed drivers deterministic in tests.
package anim
