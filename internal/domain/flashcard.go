package domain

// Flashcard is a question/answer pair shown to the end user. Either side may
// be empty when the model produced a malformed card.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Degenerate reports whether cleanup left either side of the card empty.
func (f Flashcard) Degenerate() bool {
	return f.Question == "" || f.Answer == ""
}
