package valueobjects

import "errors"

// PostID is a value object representing a persisted post identifier.
// A draft has no identity until the backend accepts it for the first
// time; the zero value therefore means "never persisted" and a save
// with a zero PostID is a create rather than an update.
type PostID struct {
	value string
}

// ZeroPostID returns the identity of a never-persisted draft
func ZeroPostID() PostID {
	return PostID{}
}

// NewPostIDFromString creates a PostID from a backend-assigned identifier
func NewPostIDFromString(id string) (PostID, error) {
	if id == "" {
		return PostID{}, errors.New("post ID cannot be empty")
	}
	return PostID{value: id}, nil
}

// String returns the string representation of the PostID
func (id PostID) String() string {
	return id.value
}

// Equals checks if two PostIDs are equal
func (id PostID) Equals(other PostID) bool {
	return id.value == other.value
}

// IsZero checks if the PostID is the zero value
func (id PostID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id PostID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *PostID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("PostID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
