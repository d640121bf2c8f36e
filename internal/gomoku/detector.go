package gomoku

import "github.com/coldpeak/gomoku-rooms/internal/entity"

const winLength = 5

// The four axes a winning line can lie on: horizontal, vertical and the
// two diagonals. Each is walked in both senses from the placed cell.
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Detect - reports the winning mark if the cell just written at
// (row, col) completes a run of five or more identical marks on any axis,
// EmptyCell otherwise. A run longer than five still wins. Pure and
// bounded: at most 4 axes times 9 reads.
func Detect(board entity.Board, row, col int) entity.Mark {
	if !entity.InBounds(row, col) {
		return entity.EmptyCell
	}

	mark := board[row][col]
	if mark == entity.EmptyCell {
		return entity.EmptyCell
	}

	for _, axis := range axes {
		count := 1

		for r, c := row+axis[0], col+axis[1]; entity.InBounds(r, c) && board[r][c] == mark; r, c = r+axis[0], c+axis[1] {
			count++
		}

		for r, c := row-axis[0], col-axis[1]; entity.InBounds(r, c) && board[r][c] == mark; r, c = r-axis[0], c-axis[1] {
			count++
		}

		if count >= winLength {
			return mark
		}
	}

	return entity.EmptyCell
}
