package game

// Score compares a guess against the secret, position by position:
//   - PegBlack when the colors match,
//   - PegWhite when the guessed color occurs anywhere in the secret,
//   - PegMiss otherwise.
//
// Multiplicities are not tracked. With duplicates allowed a repeated color
// can earn more whites than a classic board would award, e.g. secret 1234
// and guess 1122 score "bwww". The solver's miss rule ("color absent from
// the code") relies on exactly this behaviour, so the two must change
// together.
func Score(secret, guess Code) Feedback {
	present := make(map[int]struct{}, len(secret))
	for _, c := range secret {
		present[c] = struct{}{}
	}
	fb := make(Feedback, len(guess))
	for i, c := range guess {
		if i < len(secret) && secret[i] == c {
			fb[i] = PegBlack
		} else if _, ok := present[c]; ok {
			fb[i] = PegWhite
		} else {
			fb[i] = PegMiss
		}
	}
	return fb
}
