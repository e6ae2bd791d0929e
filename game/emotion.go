package game

// EmotionState is the AI opponent's surfaced mood. It is purely
// observational: transitions are driven by score differential and turn
// events, and nothing in the scoring or turn logic ever reads it.
type EmotionState int

const (
	EmotionNeutral EmotionState = iota
	EmotionConfident
	EmotionDetermined
	EmotionFrustrated
	EmotionCelebratory
	EmotionThinking
	EmotionSurprised
	EmotionFocused
)

// String returns the wire string for an EmotionState.
func (e EmotionState) String() string {
	switch e {
	case EmotionNeutral:
		return "neutral"
	case EmotionConfident:
		return "confident"
	case EmotionDetermined:
		return "determined"
	case EmotionFrustrated:
		return "frustrated"
	case EmotionCelebratory:
		return "celebratory"
	case EmotionThinking:
		return "thinking"
	case EmotionSurprised:
		return "surprised"
	case EmotionFocused:
		return "focused"
	default:
		return "unknown"
	}
}

// baselineEmotion derives the AI mood from the score differential at a turn
// boundary. Event moods (celebratory, surprised) are set at event time, held
// through one turn boundary, then overwritten by this baseline.
func baselineEmotion(aiScore, humanScore, threshold int, aiTurn bool) EmotionState {
	diff := aiScore - humanScore
	switch {
	case diff < -threshold:
		return EmotionFrustrated
	case diff > threshold:
		return EmotionConfident
	case aiTurn:
		return EmotionFocused
	default:
		return EmotionNeutral
	}
}
