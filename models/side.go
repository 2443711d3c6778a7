package models

// Side identifies one of the two teams of a fixture.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Opposite returns the other side. An invalid side stays invalid.
func (s Side) Opposite() Side {
	switch s {
	case SideHome:
		return SideAway
	case SideAway:
		return SideHome
	}
	return s
}
