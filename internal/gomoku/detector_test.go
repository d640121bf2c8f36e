package gomoku

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coldpeak/gomoku-rooms/internal/entity"
)

func TestDetect(t *testing.T) {
	t.Run("Returns no winner for an empty board", func(t *testing.T) {
		// Given: an empty board
		var board entity.Board

		// When: detection runs on an empty cell
		winner := Detect(board, 5, 5)

		// Then: there is no winner
		assert.Equal(t, entity.EmptyCell, winner)
	})

	t.Run("Detects a horizontal five", func(t *testing.T) {
		// Given: five black marks at (7,0)..(7,4)
		var board entity.Board
		for col := 0; col < 5; col++ {
			board[7][col] = entity.Black
		}

		// When: detection runs from the middle of the line
		winner := Detect(board, 7, 2)

		// Then: black wins
		assert.Equal(t, entity.Black, winner)
	})

	t.Run("Detects a vertical five", func(t *testing.T) {
		// Given: five white marks at (0,7)..(4,7)
		var board entity.Board
		for row := 0; row < 5; row++ {
			board[row][7] = entity.White
		}

		// When: detection runs from the middle of the line
		winner := Detect(board, 2, 7)

		// Then: white wins
		assert.Equal(t, entity.White, winner)
	})

	t.Run("Detects a diagonal five", func(t *testing.T) {
		// Given: five white marks at (0,0)..(4,4)
		var board entity.Board
		for i := 0; i < 5; i++ {
			board[i][i] = entity.White
		}

		// When: detection runs from the middle of the line
		winner := Detect(board, 2, 2)

		// Then: white wins
		assert.Equal(t, entity.White, winner)
	})

	t.Run("Detects an anti-diagonal five", func(t *testing.T) {
		// Given: five white marks at (0,9),(1,8),(2,7),(3,6),(4,5)
		var board entity.Board
		for i := 0; i < 5; i++ {
			board[i][9-i] = entity.White
		}

		// When: detection runs from the middle of the line
		winner := Detect(board, 2, 7)

		// Then: white wins
		assert.Equal(t, entity.White, winner)
	})

	t.Run("Returns no winner for four in a row against the edge", func(t *testing.T) {
		// Given: only four black marks at (7,0)..(7,3)
		var board entity.Board
		for col := 0; col < 4; col++ {
			board[7][col] = entity.Black
		}

		// When: detection runs inside the run
		winner := Detect(board, 7, 2)

		// Then: four is not enough
		assert.Equal(t, entity.EmptyCell, winner)
	})

	t.Run("Counts an overline as a win", func(t *testing.T) {
		// Given: six black marks in a row
		var board entity.Board
		for col := 2; col < 8; col++ {
			board[4][col] = entity.Black
		}

		// When: detection runs anywhere in the run
		winner := Detect(board, 4, 5)

		// Then: six or more still wins
		assert.Equal(t, entity.Black, winner)
	})

	t.Run("Ignores a broken line", func(t *testing.T) {
		// Given: four black marks, a white gap, then another black
		var board entity.Board
		board[3][0] = entity.Black
		board[3][1] = entity.Black
		board[3][2] = entity.Black
		board[3][3] = entity.Black
		board[3][4] = entity.White
		board[3][5] = entity.Black

		// When: detection runs on the run next to the gap
		winner := Detect(board, 3, 3)

		// Then: the gap breaks the line
		assert.Equal(t, entity.EmptyCell, winner)
	})

	t.Run("Returns no winner when the queried cell is empty", func(t *testing.T) {
		// Given: a winning line that does not pass through the queried cell
		var board entity.Board
		for col := 0; col < 5; col++ {
			board[0][col] = entity.Black
		}

		// When: detection runs on an untouched cell
		winner := Detect(board, 9, 9)

		// Then: detection only considers the placed cell
		assert.Equal(t, entity.EmptyCell, winner)
	})

	t.Run("Is invariant under 180 degree rotation", func(t *testing.T) {
		// Given: an arbitrary board with a diagonal white win through (4,5)
		var board entity.Board
		for i := 0; i < 5; i++ {
			board[2+i][3+i] = entity.White
		}
		board[0][0] = entity.Black
		board[9][1] = entity.Black

		// When: the board and the queried coordinate are rotated by 180 degrees
		var rotated entity.Board
		for row := 0; row < entity.BoardSize; row++ {
			for col := 0; col < entity.BoardSize; col++ {
				rotated[entity.BoardSize-1-row][entity.BoardSize-1-col] = board[row][col]
			}
		}

		// Then: both orientations agree on the winner
		assert.Equal(t, Detect(board, 4, 5), Detect(rotated, entity.BoardSize-1-4, entity.BoardSize-1-5))
		assert.Equal(t, entity.White, Detect(rotated, entity.BoardSize-1-4, entity.BoardSize-1-5))
	})
}
