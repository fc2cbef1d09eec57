package feast

// Person is one member of the feeding roster.
type Person struct {
	ID          int
	Name        string
	IsCelebrant bool
	Avatar      string
	Fed         bool
}

// Companion is a fixed guest seated around the cake.
type Companion struct {
	Name   string
	Avatar string
}

// MaxCompanions caps the guests next to the celebrant, so a roster never holds
// more than six people.
const MaxCompanions = 5

// FedAvatar replaces a person's glyph once they have eaten.
const FedAvatar = "😋"

// Companions is the guest list in seating order.
var Companions = []Companion{
	{Name: "Rishabh", Avatar: "🧔"},
	{Name: "Gurman", Avatar: "👩"},
	{Name: "Divya", Avatar: "👨"},
	{Name: "Annaya", Avatar: "🧑"},
	{Name: "Aman", Avatar: "👵"},
}

// NewRoster builds a fresh roster: the celebrant first with ID 0, then up to
// MaxCompanions guests with IDs 1..n. Nobody starts fed.
func NewRoster(celebrant, avatar string) []Person {
	guests := Companions
	if len(guests) > MaxCompanions {
		guests = guests[:MaxCompanions]
	}
	people := make([]Person, 0, len(guests)+1)
	people = append(people, Person{
		ID:          0,
		Name:        celebrant,
		IsCelebrant: true,
		Avatar:      avatar,
	})
	for i, c := range guests {
		people = append(people, Person{
			ID:     i + 1,
			Name:   c.Name,
			Avatar: c.Avatar,
		})
	}
	return people
}
