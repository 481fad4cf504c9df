package travel

// Item is a timeline entry: either a *Segment or a *Stay, nothing else.
// The interface is sealed so consumers can type-switch exhaustively
// instead of dispatching on a string discriminant.
type Item interface {
	// ItemKey is unique within a trip and stable across reloads.
	ItemKey() string
	// ItemType is the API path discriminant: "segment" or "stay".
	ItemType() string
	// ItemID is the identifier used in album API paths.
	ItemID() string

	sealed()
}

func (s *Segment) ItemKey() string  { return "segment-" + s.ID }
func (s *Segment) ItemType() string { return "segment" }
func (s *Segment) ItemID() string   { return s.ID }
func (*Segment) sealed()            {}

func (s *Stay) ItemKey() string  { return s.Key() }
func (s *Stay) ItemType() string { return "stay" }
func (s *Stay) ItemID() string   { return s.Key() }
func (*Stay) sealed()            {}
