package model

// EditKind is the type of a recorded curve mutation.
type EditKind string

const (
	EditInsert   EditKind = "insert"
	EditRemove   EditKind = "remove"
	EditModify   EditKind = "modify"
	EditWeighted EditKind = "weighted"
)

// Edit is a single field-level curve mutation. Keys are addressed by time,
// which is unique within a curve and never changed by a modify.
type Edit struct {
	Kind   EditKind  `json:"kind"`
	Curve  CurveID   `json:"curve"`
	Before *Keyframe `json:"before,omitempty"`
	After  *Keyframe `json:"after,omitempty"`

	// Weighted edits only.
	WasWeighted bool `json:"was_weighted,omitempty"`
	Weighted    bool `json:"weighted,omitempty"`
}
