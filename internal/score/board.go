// Package score tracks kills of the current run and archives finished runs.
package score

import "sync/atomic"

// Board is the run's kill counter. Safe for concurrent use: the
// simulation writes, the HUD and the recorder read.
type Board struct {
	kills  atomic.Int64
	points atomic.Int64
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// AddKill credits one kill worth points.
func (b *Board) AddKill(points int) {
	b.kills.Add(1)
	b.points.Add(int64(points))
}

// Kills returns kill count
func (b *Board) Kills() int { return int(b.kills.Load()) }

// Points returns total points
func (b *Board) Points() int { return int(b.points.Load()) }

// Reset zeroes the board.
func (b *Board) Reset() {
	b.kills.Store(0)
	b.points.Store(0)
}
