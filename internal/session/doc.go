// Package session keeps scan snapshots between commands.
//
// A scan hands out an opaque token; later save and rename commands present
// the token to recover the archive order and the baseline captured at scan
// time. Every snapshot expires independently after its TTL and tokens never
// see each other's state.
//
// The cache is a JSON file guarded by an advisory file lock so concurrent
// mangatag processes can share it. With an empty path the cache lives in
// memory only.
package session
