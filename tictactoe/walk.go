package tictactoe

// Visit calls visitor on root and then, depth-first, on every game reachable
// from it by legal moves. Each visited game is an independent clone.
func Visit(root *Game, visitor func(g *Game)) {
	visitor(root)
	if root.IsOver() {
		return
	}

	for _, move := range root.LegalMoves() {
		child := root.Clone()
		child.MakeMove(move)
		Visit(child, visitor)
	}
}

// VisitPositions calls visitor once for each distinct board reachable from root.
func VisitPositions(root *Game, visitor func(b Board, toMove Player)) {
	seen := make(map[Board]struct{})
	Visit(root, func(g *Game) {
		b := g.Board()
		if _, ok := seen[b]; ok {
			return
		}

		visitor(b, g.CurrentPlayer())
		seen[b] = struct{}{}
	})
}

func CountNodes(root *Game) int {
	total := 0
	Visit(root, func(g *Game) { total++ })
	return total
}

func CountTerminalNodes(root *Game) int {
	total := 0
	Visit(root, func(g *Game) {
		if g.IsOver() {
			total++
		}
	})

	return total
}

func CountPositions(root *Game) int {
	total := 0
	VisitPositions(root, func(Board, Player) { total++ })
	return total
}
