// Package deck deals shuffled memory decks from a difficulty preset.
package deck

import (
	"math/rand/v2"

	"github.com/roach88/pairs/internal/preset"
)

// Card is one tile on the board.
//
// ID is stable for the life of a deck and equals the card's position.
type Card struct {
	ID      int            `json:"id"`
	Image   preset.ImageID `json:"image"`
	FaceUp  bool           `json:"face_up"`
	Matched bool           `json:"matched"`
}

// Build deals a deck for p.
//
// It picks p.PairCount distinct images from the pool, places each twice,
// shuffles the result and numbers the cards 0..2*PairCount-1 by position.
// All randomness comes from rng, so the same seed yields the same deck.
//
// Fails with *preset.InsufficientImagesError (or another validation error)
// when p cannot be dealt.
func Build(p preset.Preset, rng *rand.Rand) ([]Card, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pool := append([]preset.ImageID(nil), p.Images...)
	shuffle(rng, pool)
	picked := pool[:p.PairCount]

	faces := make([]preset.ImageID, 0, 2*len(picked))
	faces = append(faces, picked...)
	faces = append(faces, picked...)
	shuffle(rng, faces)

	cards := make([]Card, len(faces))
	for i, img := range faces {
		cards[i] = Card{ID: i, Image: img}
	}
	return cards, nil
}

// shuffle is a Fisher-Yates shuffle driven by rng.
func shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// NewRand returns a PCG-backed source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Layout returns the image of every card in position order.
func Layout(cards []Card) []preset.ImageID {
	out := make([]preset.ImageID, len(cards))
	for i, c := range cards {
		out[i] = c.Image
	}
	return out
}
