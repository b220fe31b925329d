package record

import "github.com/google/uuid"

// An ObjectID identifies the version chain of a persisted object.
//
// It does not identify a single snapshot; see Ref.
type ObjectID uuid.UUID

// NewID returns a new random ObjectID.
//
// It is intended for use by archive implementations, which are responsible
// for issuing identifiers.
func NewID() ObjectID {
	return ObjectID(uuid.New())
}

// ParseID parses id in its canonical string form.
func ParseID(id string) (ObjectID, error) {
	u, err := uuid.Parse(id)
	return ObjectID(u), err
}

// IsZero returns true if id is the zero-value.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

func (id ObjectID) String() string {
	return uuid.UUID(id).String()
}

// MarshalBinary returns a 16-byte binary representation of the ID.
func (id ObjectID) MarshalBinary() ([]byte, error) {
	return uuid.UUID(id).MarshalBinary()
}

// UnmarshalBinary populates the ID from its 16-byte binary representation.
func (id *ObjectID) UnmarshalBinary(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalBinary(data); err != nil {
		return err
	}

	*id = ObjectID(u)

	return nil
}
