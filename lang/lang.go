package lang

// Code is an engine-facing language code.
type Code string

const (
	Turkish Code = "tr"
	English Code = "en"
)

// user facing labels, in the order the interface lists them
const (
	LabelTurkish = "Türkçe"
	LabelEnglish = "English"
)

// Labels returns the selectable language labels. Turkish is the default.
func Labels() []string {
	return []string{LabelTurkish, LabelEnglish}
}

// FromLabel maps a label to its code.
// Anything that is not the Turkish label is treated as English.
func FromLabel(label string) Code {
	if label == LabelTurkish {
		return Turkish
	}
	return English
}

// Label returns the display label for a code.
func (c Code) Label() string {
	if c == Turkish {
		return LabelTurkish
	}
	return LabelEnglish
}

func (c Code) String() string {
	return string(c)
}
