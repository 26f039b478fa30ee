// Package project is the state owner that sits outside the compositor. It
// holds the editable project (layers, track placements, playhead, play
// state, selection), computes per-layer clip times for the compositor and
// applies the move and select requests the compositor emits.
//
// Projects persist through a [Store]. Backends:
//   - [MemoryStore]: in-process, for tests and the terminal editor
//   - [FileStore]: one JSON file per project, guarded by a file lock
//   - [SQLiteStore]: a single local database file
//   - [MongoStore]: shared storage for multi-instance servers
//
// [Applier] queues emitted requests in arrival order and applies them to a
// project in one batch, so interaction hosts never reorder moves.
package project
