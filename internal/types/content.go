package types

// Numerology holds the derived numerology profile. Both values are in
// {1..9, 11, 22, 33} except that a letter-free name yields Expression 0.
type Numerology struct {
	LifePath   int `json:"life_path"`
	Expression int `json:"expression"`
}

// CompatEntry is one sign's compatibility reading.
type CompatEntry struct {
	Text       string `json:"text"`
	Percentage int    `json:"percentage"`
}

// BookContent holds every generated prose piece for one book.
type BookContent struct {
	// Sections maps section name (introduction, sun_sign, ...) to prose.
	Sections map[string]string `json:"sections"`
	// Compatibility maps each of the twelve sign names to its entry.
	Compatibility map[string]CompatEntry `json:"compatibility"`
	// Monthly maps month names (January..December) to forecast prose.
	Monthly map[string]string `json:"monthly"`
}

// NewBookContent returns an empty, fully allocated content container.
func NewBookContent() *BookContent {
	return &BookContent{
		Sections:      make(map[string]string),
		Compatibility: make(map[string]CompatEntry),
		Monthly:       make(map[string]string),
	}
}
