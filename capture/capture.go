// Package capture decides which table cards a played card may take.
package capture

import "scopone-client/game"

// Takeable returns every legal capture for played on table.
//
// If the table holds cards of the same rank as played, each of them is an
// option on its own and sums are not considered. Otherwise every non-empty
// subset of the table whose values add up to the value of played is an option.
//
// No option means the card is laid on the table. One option is an unambiguous
// capture. More than one means the player has to choose.
func Takeable(played game.Card, table []game.Card) [][]game.Card {
	var options [][]game.Card
	for _, c := range table {
		if c.Type == played.Type {
			options = append(options, []game.Card{c})
		}
	}
	if len(options) > 0 {
		return options
	}

	target := played.Value()
	for _, subset := range Combinations(table) {
		if len(subset) > 0 && game.SumValues(subset) == target {
			options = append(options, subset)
		}
	}
	return options
}

// Combinations returns the power set of cards: 2^N subsets, where bit j of
// the subset index selects cards[j]. The empty subset comes first and the
// full slice last.
func Combinations(cards []game.Card) [][]game.Card {
	n := len(cards)
	subsets := make([][]game.Card, 0, 1<<n)
	for i := 0; i < 1<<n; i++ {
		subset := make([]game.Card, 0, n)
		for j := 0; j < n; j++ {
			if i&(1<<j) != 0 {
				subset = append(subset, cards[j])
			}
		}
		subsets = append(subsets, subset)
	}
	return subsets
}

// IsAmbiguous reports whether the player must pick among several captures.
func IsAmbiguous(options [][]game.Card) bool {
	return len(options) > 1
}
