// Package ecs provides ECS adapters for arview's viewer event system.
//
// The primary adapter is [NewDonburiStore], which bridges arview events
// (phase changes, gestures, taps) into a [Donburi] world as typed events.
// Subscribe to [ViewerEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventSink(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
