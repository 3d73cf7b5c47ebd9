package types

import "fmt"

// Mode says whether a product or sale write creates a new row or rewrites
// an existing one. It is passed explicitly to every write.
type Mode int

const (
	ModeInsert Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeUpdate:
		return "update"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m == ModeInsert || m == ModeUpdate
}
