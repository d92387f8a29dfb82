// Package engine implements the Reversi rules: legal placement, capture
// propagation in eight directions, score bookkeeping and full-board
// termination.
//
// The engine performs no I/O. Every mutation goes through
// (*GameState).AttemptMove, which reports what happened as a MoveResult
// carrying the events a renderer or score display needs.
package engine
