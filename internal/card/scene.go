package card

import "fmt"

// Scene is one step of the card. Scenes only ever move forward.
type Scene uint8

const (
	SceneMail      Scene = iota // sealed invitation
	SceneSelection              // whose birthday is it
	SceneCake                   // feeding mini-game
	SceneBlessings              // poems, terminal
)

func (s Scene) String() string {
	switch s {
	case SceneMail:
		return "MAIL"
	case SceneSelection:
		return "SELECTION"
	case SceneCake:
		return "CAKE"
	case SceneBlessings:
		return "BLESSINGS"
	default:
		return fmt.Sprintf("Scene(%d)", uint8(s))
	}
}

// Next returns the scene after s. The second value is false at the terminal
// scene.
func (s Scene) Next() (Scene, bool) {
	if s >= SceneBlessings {
		return s, false
	}
	return s + 1, true
}

// Celebrant is the person the card is for.
type Celebrant string

// The closed set of celebrants offered on the selection screen.
const (
	Vansh  Celebrant = "Vansh"
	Simran Celebrant = "Simran"
)

// Celebrants lists the selectable names in display order.
var Celebrants = []Celebrant{Vansh, Simran}

// ParseCelebrant returns the celebrant matching name exactly.
func ParseCelebrant(name string) (Celebrant, bool) {
	for _, c := range Celebrants {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Avatar returns the celebrant's glyph.
func (c Celebrant) Avatar() string {
	if c == Vansh {
		return "👦"
	}
	return "👧"
}

func (c Celebrant) String() string { return string(c) }
