package capture

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"scopone-client/game"
)

func c(r game.Rank, s game.Suit) game.Card { return game.NewCard(r, s) }

// canon renders a list of options independently of option and card order.
func canon(options [][]game.Card) string {
	keys := make([]string, 0, len(options))
	for _, o := range options {
		names := make([]string, 0, len(o))
		for _, card := range o {
			names = append(names, card.String())
		}
		sort.Strings(names)
		keys = append(keys, "["+strings.Join(names, ",")+"]")
	}
	sort.Strings(keys)
	return strings.Join(keys, "")
}

func TestTakeable_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		played game.Card
		table  []game.Card
		want   [][]game.Card
	}{
		{
			name:   "nothing to take",
			played: c(game.Two, game.Spade),
			table:  []game.Card{c(game.Seven, game.Denari)},
			want:   nil,
		},
		{
			name:   "direct match",
			played: c(game.Seven, game.Spade),
			table:  []game.Card{c(game.Seven, game.Denari)},
			want:   [][]game.Card{{c(game.Seven, game.Denari)}},
		},
		{
			name:   "sum match",
			played: c(game.Jack, game.Spade),
			table:  []game.Card{c(game.Seven, game.Denari), c(game.Six, game.Bastoni), c(game.Two, game.Coppe)},
			want:   [][]game.Card{{c(game.Six, game.Bastoni), c(game.Two, game.Coppe)}},
		},
		{
			name:   "two direct matches",
			played: c(game.Seven, game.Spade),
			table:  []game.Card{c(game.Seven, game.Denari), c(game.Seven, game.Bastoni), c(game.Two, game.Coppe)},
			want:   [][]game.Card{{c(game.Seven, game.Denari)}, {c(game.Seven, game.Bastoni)}},
		},
		{
			name:   "direct match wins over sum",
			played: c(game.Six, game.Spade),
			table:  []game.Card{c(game.Three, game.Denari), c(game.Two, game.Bastoni), c(game.Ace, game.Coppe), c(game.Six, game.Denari)},
			want:   [][]game.Card{{c(game.Six, game.Denari)}},
		},
		{
			name:   "two sum options",
			played: c(game.Five, game.Bastoni),
			table:  []game.Card{c(game.Four, game.Denari), c(game.Ace, game.Spade), c(game.Three, game.Coppe), c(game.Two, game.Denari)},
			want: [][]game.Card{
				{c(game.Four, game.Denari), c(game.Ace, game.Spade)},
				{c(game.Three, game.Coppe), c(game.Two, game.Denari)},
			},
		},
		{
			name:   "empty table",
			played: c(game.King, game.Coppe),
			table:  nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Takeable(tt.played, tt.table)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d options, got %d: %v", len(tt.want), len(got), got)
			}
			if canon(got) != canon(tt.want) {
				t.Errorf("expected %s, got %s", canon(tt.want), canon(got))
			}
		})
	}
}

func TestTakeable_DirectMatchOrderFollowsTable(t *testing.T) {
	table := []game.Card{c(game.Seven, game.Denari), c(game.Seven, game.Bastoni)}
	got := Takeable(c(game.Seven, game.Spade), table)
	if len(got) != 2 || got[0][0] != table[0] || got[1][0] != table[1] {
		t.Errorf("unexpected options %v", got)
	}
}

// randomTable draws n distinct cards from a shuffled deck.
func randomTable(r *rand.Rand, n int) []game.Card {
	deck := game.NewDeck()
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck[:n]
}

func TestTakeable_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		table := randomTable(r, r.Intn(9))
		played := game.NewDeck()[r.Intn(40)]
		if game.IndexOf(table, played) >= 0 {
			continue
		}
		got := Takeable(played, table)

		var sameRank []game.Card
		for _, card := range table {
			if card.Type == played.Type {
				sameRank = append(sameRank, card)
			}
		}

		if len(sameRank) > 0 {
			if len(got) != len(sameRank) {
				t.Fatalf("%s on %v: expected %d singletons, got %v", played, table, len(sameRank), got)
			}
			for _, o := range got {
				if len(o) != 1 || o[0].Type != played.Type {
					t.Fatalf("%s on %v: unexpected option %v", played, table, o)
				}
			}
			continue
		}

		// Brute force the expected subsets independently of Combinations.
		var want [][]game.Card
		n := len(table)
		for mask := 1; mask < 1<<n; mask++ {
			var subset []game.Card
			for j := 0; j < n; j++ {
				if mask>>j&1 == 1 {
					subset = append(subset, table[j])
				}
			}
			if game.SumValues(subset) == played.Value() {
				want = append(want, subset)
			}
		}
		if canon(got) != canon(want) {
			t.Fatalf("%s on %v: expected %s, got %s", played, table, canon(want), canon(got))
		}
		for _, o := range got {
			if len(o) == 0 {
				t.Fatalf("%s on %v: empty option returned", played, table)
			}
		}
	}
}

func TestTakeable_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		table := randomTable(r, 1+r.Intn(8))
		played := game.NewDeck()[r.Intn(40)]

		shuffled := append([]game.Card(nil), table...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if a, b := canon(Takeable(played, table)), canon(Takeable(played, shuffled)); a != b {
			t.Fatalf("%s: %s vs %s after permuting %v", played, a, b, table)
		}
	}
}

func TestCombinations(t *testing.T) {
	for n := 0; n <= 6; n++ {
		cards := game.NewDeck()[:n]
		subsets := Combinations(cards)
		if len(subsets) != 1<<n {
			t.Fatalf("n=%d: expected %d subsets, got %d", n, 1<<n, len(subsets))
		}
		empty, full := 0, 0
		seen := make(map[string]bool)
		for _, s := range subsets {
			if len(s) == 0 {
				empty++
			}
			if len(s) == n {
				full++
			}
			key := canon([][]game.Card{s})
			if seen[key] {
				t.Fatalf("n=%d: duplicate subset %s", n, key)
			}
			seen[key] = true
		}
		if empty != 1 || full != 1 {
			t.Errorf("n=%d: expected one empty and one full subset, got %d and %d", n, empty, full)
		}
		if len(subsets[0]) != 0 || len(subsets[len(subsets)-1]) != n {
			t.Errorf("n=%d: expected empty subset first and full table last", n)
		}
	}
}

func TestIsAmbiguous(t *testing.T) {
	if IsAmbiguous(nil) || IsAmbiguous([][]game.Card{{c(game.Ace, game.Coppe)}}) {
		t.Error("zero or one option is not ambiguous")
	}
	if !IsAmbiguous([][]game.Card{{c(game.Ace, game.Coppe)}, {c(game.Ace, game.Spade)}}) {
		t.Error("two options are ambiguous")
	}
}
