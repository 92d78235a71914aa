package resolver

// Kind is a coarse value category. Kinds are only compared at configuration
// time; stage functions still check the concrete values they receive.
type Kind string

const (
	KindAny      Kind = "any"
	KindDocument Kind = "document"
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindMap      Kind = "map"
	KindList     Kind = "list"
)

var kinds = []Kind{KindAny, KindDocument, KindText, KindNumber, KindBool, KindMap, KindList}

// ParseKind accepts a kind name; empty means any.
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return KindAny, true
	}
	for _, k := range kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Compatible reports whether a value of kind produced can be handed to a
// consumer declaring kind wanted.
func Compatible(produced, wanted Kind) bool {
	return produced == wanted || produced == KindAny || wanted == KindAny
}

// Signature declares the kinds a function consumes and produces.
//
//	extractor:     In is the document kind, Out the extracted input
//	annotator:     In is its input, Out the annotation result
//	postprocessor: In is the extracted input, Out the result it accepts
type Signature struct {
	In  Kind `json:"in"`
	Out Kind `json:"out"`
}
