package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/birthdaycard/internal/feast"
	"github.com/phanxgames/birthdaycard/internal/stage"
)

// InteractionEventType carries pointer, click and drag events for nodes with
// a non-zero EntityID.
var InteractionEventType = events.NewEventType[stage.InteractionEvent]()

// FeastEventType carries mini-game events.
var FeastEventType = events.NewEventType[feast.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore returns a stage.EntityStore that publishes to
// InteractionEventType.
func NewDonburiStore(world donburi.World) stage.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event stage.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// FeastBridge publishes mini-game events into a world.
type FeastBridge struct {
	world donburi.World
}

// NewFeastBridge returns a bridge publishing to FeastEventType.
func NewFeastBridge(world donburi.World) *FeastBridge {
	return &FeastBridge{world: world}
}

// Publish queues e. Assign it to feast.Game.OnEvent.
func (b *FeastBridge) Publish(e feast.Event) {
	FeastEventType.Publish(b.world, e)
}

// Attach routes every event of g through the bridge, replacing any previous
// OnEvent hook.
func (b *FeastBridge) Attach(g *feast.Game) {
	g.OnEvent = b.Publish
}
