package game

import "sort"

// Suit is one of the four Italian suits.
type Suit string

const (
	Denari  Suit = "Denari"
	Bastoni Suit = "Bastoni"
	Spade   Suit = "Spade"
	Coppe   Suit = "Coppe"
)

// Suits lists the suits in deck order.
var Suits = []Suit{Denari, Bastoni, Spade, Coppe}

// Rank is the card type. On the wire it travels in the "type" field.
type Rank string

const (
	Ace   Rank = "Ace"
	Two   Rank = "Two"
	Three Rank = "Three"
	Four  Rank = "Four"
	Five  Rank = "Five"
	Six   Rank = "Six"
	Seven Rank = "Seven"
	Jack  Rank = "Jack"
	Queen Rank = "Queen"
	King  Rank = "King"
)

// Ranks lists the ranks by ascending capture value.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Jack, Queen, King}

var rankValues = map[Rank]int{
	Ace:   1,
	Two:   2,
	Three: 3,
	Four:  4,
	Five:  5,
	Six:   6,
	Seven: 7,
	Jack:  8,
	Queen: 9,
	King:  10,
}

// Value returns the capture value (1..10) of the rank.
// An unknown rank has value 0.
func (r Rank) Value() int {
	return rankValues[r]
}

// Card is an immutable (suit, rank) pair. A deck never holds duplicates.
type Card struct {
	Type Rank `json:"type"`
	Suit Suit `json:"suit"`
}

// NewCard is a shorthand used mostly by tests.
func NewCard(r Rank, s Suit) Card {
	return Card{Type: r, Suit: s}
}

// Value returns the capture value of the card, independent of the suit.
func (c Card) Value() int {
	return c.Type.Value()
}

// String renders the card as "Seven-Denari".
func (c Card) String() string {
	return string(c.Type) + "-" + string(c.Suit)
}

// NewDeck returns the 40 cards of a Scopone deck, ordered by suit then rank.
func NewDeck() []Card {
	deck := make([]Card, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Type: r, Suit: s})
		}
	}
	return deck
}

// SumValues adds up the capture values of cards.
func SumValues(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Value()
	}
	return sum
}

// IndexOf returns the position of c in cards, or -1.
func IndexOf(cards []Card, c Card) int {
	for i := range cards {
		if cards[i] == c {
			return i
		}
	}
	return -1
}

// SortByValue sorts cards in place by descending capture value and returns them.
func SortByValue(cards []Card) []Card {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Value() > cards[j].Value()
	})
	return cards
}

// GroupBySuit partitions cards by suit, keeping the input order within a suit.
func GroupBySuit(cards []Card) map[Suit][]Card {
	groups := make(map[Suit][]Card)
	for _, c := range cards {
		groups[c.Suit] = append(groups[c.Suit], c)
	}
	return groups
}

// SortBySuitAndValue returns a new slice with suits in alphabetical order and,
// within each suit, cards by descending value. This is the order hands are displayed in.
func SortBySuitAndValue(cards []Card) []Card {
	groups := GroupBySuit(cards)
	suits := make([]string, 0, len(groups))
	for s := range groups {
		suits = append(suits, string(s))
	}
	sort.Strings(suits)

	sorted := make([]Card, 0, len(cards))
	for _, s := range suits {
		sorted = append(sorted, SortByValue(groups[Suit(s)])...)
	}
	return sorted
}
