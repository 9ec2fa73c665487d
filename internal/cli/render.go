package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/pairs/internal/deck"
	"github.com/roach88/pairs/internal/game"
)

// renderBoard draws the cards in rows of the state's grid width.
// Face-down cards show their id, open cards their image and matched
// cards their image in parentheses.
func renderBoard(w io.Writer, s game.State) {
	labels := make([]string, len(s.Cards))
	width := 0
	for i, c := range s.Cards {
		labels[i] = cardLabel(c)
		width = max(width, len(labels[i]))
	}
	writeGrid(w, labels, s.Grid().Columns, width)
}

func cardLabel(c deck.Card) string {
	switch {
	case c.Matched:
		return "(" + string(c.Image) + ")"
	case c.FaceUp:
		return string(c.Image)
	}
	return fmt.Sprintf("#%d", c.ID)
}

func writeGrid(w io.Writer, labels []string, columns, width int) {
	if columns <= 0 {
		columns = 1
	}
	for start := 0; start < len(labels); start += columns {
		end := min(start+columns, len(labels))
		cells := make([]string, 0, end-start)
		for _, label := range labels[start:end] {
			cells = append(cells, fmt.Sprintf("%-*s", width, label))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// renderStatus prints the counters line shown under the board.
func renderStatus(w io.Writer, s game.State) {
	if s.Difficulty == nil {
		fmt.Fprintln(w, "No difficulty chosen.")
		return
	}
	fmt.Fprintf(w, "%s  attempts %d  pairs %d/%d  time %ds\n",
		s.Difficulty.Title(), s.Attempts, s.MatchedPairs, s.Difficulty.PairCount, s.ElapsedSeconds)
	if s.IsGameOver() {
		fmt.Fprintf(w, "All pairs found in %d attempts and %d seconds.\n", s.Attempts, s.ElapsedSeconds)
	}
}
