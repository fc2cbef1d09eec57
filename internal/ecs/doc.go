// Package ecs bridges the card's event sources into a [Donburi] world as
// typed events.
//
// Stage interaction events arrive through [NewDonburiStore], an
// implementation of stage.EntityStore. Mini-game events arrive through
// [FeastBridge]. Both are queued and delivered to subscribers when the world
// processes its events, once per frame:
//
//	world := donburi.NewWorld()
//	scene.SetEntityStore(ecs.NewDonburiStore(world))
//	ecs.FeastEventType.Subscribe(world, onFeast)
//	...
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
