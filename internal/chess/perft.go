package chess

// Perft counts the leaf nodes of the legal move tree at depth, the
// standard movegen correctness/regression check. It walks pseudo-legal
// moves and filters through DoMove rather than calling
// GenerateLegalMoves at every node, avoiding a second allocation per ply.
func Perft(pos *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	var buffer [MaxMoves]Move
	var ml = pos.GenerateMoves(buffer[:0])
	if depth == 1 {
		var count int64
		var child Position
		for _, m := range ml {
			if pos.DoMove(m, &child) {
				count++
			}
		}
		return count
	}
	var count int64
	var child Position
	for _, m := range ml {
		if pos.DoMove(m, &child) {
			count += Perft(&child, depth-1)
		}
	}
	return count
}
