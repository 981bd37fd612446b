package ecs

import (
	"github.com/phanxgames/arview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ViewerEventType is the Donburi event type for arview events.
// Subscribe to this in your ECS systems to receive phase, gesture and tap events.
var ViewerEventType = events.NewEventType[arview.ViewerEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Events are published to ViewerEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) arview.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event arview.ViewerEvent) {
	ViewerEventType.Publish(s.world, event)
}
