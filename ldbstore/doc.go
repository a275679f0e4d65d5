// Package ldbstore implements an mclearn.MemoryStore that keeps learner
// memories in a LevelDB database, rather than in one file per player.
//
// Each position is stored under its own key, so several players can share
// one database and a memory can be inspected without decoding it whole.
package ldbstore
