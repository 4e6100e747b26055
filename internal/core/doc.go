// Package core implements the lock-free journal reader pool: the slot
// array, segment chain, name map, and the acquire/release/lock/unlock/close
// protocol described by the project's design. It is the only package in
// this module where multiple goroutines contend for mutable shared state on
// the hot path.
//
// core has no notion of what a "journal" actually is on disk — that is
// supplied by the caller through Config.Open and Config.Exists. This keeps
// the pool's concurrency protocol independent of the on-disk journal format,
// the same separation the teacher draws between its Pool (generic instance
// pooling) and its kubestack/kine process wiring.
package core
