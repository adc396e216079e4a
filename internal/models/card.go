package models

// Meaning is one sense of a word: part of speech plus definition.
type Meaning struct {
	MeaningID    int64  `json:"meaningId"`
	PartOfSpeech string `json:"partOfSpeech"`
	Definition   string `json:"definition"`
}

// WordCard is a unit of review content as served by the backend.
// ContextualMeaningID is the stable join key between a displayed card
// and a submitted review; a card is never mutated once fetched.
type WordCard struct {
	ContextualMeaningID        int64     `json:"contextualMeaningId"`
	Lemma                      string    `json:"lemma"`
	WordInSentence             string    `json:"wordInSentence"`
	ExampleSentence            string    `json:"exampleSentence"`
	ExampleSentenceTranslation string    `json:"exampleSentenceTranslation,omitempty"`
	AllMeanings                []Meaning `json:"allMeanings"`
}
