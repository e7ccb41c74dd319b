package domain

// Event kinds understood by this client. The numeric values are fixed by the
// relay protocol and must match exactly.
const (
	KindGroupCreate       = 9007
	KindGroupDelete       = 9008
	KindGroupCreateInvite = 9009
	KindGroupMetadata     = 39000
	KindClientAuth        = 22242
)

// Tag is an ordered list of strings attached to an event. The first element
// names the tag's purpose, the rest are its values.
type Tag []string

// Name returns the first element of the tag, or "" for an empty tag.
func (t Tag) Name() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Value returns the second element of the tag, or "" when absent.
func (t Tag) Value() string {
	if len(t) < 2 {
		return ""
	}
	return t[1]
}

// Event is a signed, content-addressed relay event. ID and Sig are derived
// entirely from the other fields plus the signing key; an Event is never
// mutated after signing.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      int    `json:"kind"`
	Tags      []Tag  `json:"tags"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// TagValue returns the value of the last tag with the given name, so a later
// tag overrides an earlier one of the same name.
func (e *Event) TagValue(name string) (string, bool) {
	val, ok := "", false
	for _, t := range e.Tags {
		if t.Name() == name {
			val, ok = t.Value(), true
		}
	}
	return val, ok
}

// Filter restricts which stored events a subscription matches.
type Filter struct {
	Kinds []int    `json:"kinds,omitempty"`
	DTags []string `json:"#d,omitempty"`
}
