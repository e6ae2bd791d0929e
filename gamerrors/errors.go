package gamerrors

import "errors"

// Engine sentinel errors. Shared by the game, deck, session and api packages
// to avoid circular imports.
var (
	// ErrEmptyCatalog means no session can be built: the card catalog has no
	// exercise cards. Fatal at session-start time.
	ErrEmptyCatalog = errors.New("card catalog is empty")

	// ErrDeckExhausted means both the draw pile and the discard pile are empty.
	ErrDeckExhausted = errors.New("deck and discard are exhausted")

	// ErrInvalidCard means the played card is not in the acting player's hand.
	// The turn is not advanced.
	ErrInvalidCard = errors.New("card is not in hand")

	// ErrSessionBusy means a play call arrived while another one against the
	// same session was still in flight.
	ErrSessionBusy = errors.New("session is busy with another action")

	ErrSessionNotFound = errors.New("session not found")
	ErrNotYourTurn     = errors.New("it is not your turn")
	ErrGameFinished    = errors.New("game already finished")
	ErrUnknownEffect   = errors.New("unknown utility effect")
	ErrInvalidFeedback = errors.New("invalid feedback value")
)
