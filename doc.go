// Package arview is a touch-driven AR video viewer built on [Ebitengine].
//
// It places a video surface in a 3D scene, lets the user move it with one
// finger and resize it with two, and drives the session start-up through a
// small state machine that checks device support, asks for the camera,
// waits for the scene and recovers from stalls.
//
// # Quick start
//
//	scene := arview.NewScene()
//	video := arview.NewSurface("video", nil, 1.6, 0.9)
//	video.Frames = decoder // any FrameSource
//	video.SetPosition(arview.Vec3{Z: -2})
//	scene.Root().AddChild(video)
//	scene.EnableGestures(video, arview.DefaultGestureConfig())
//
//	boot := arview.NewBootstrap(arview.DefaultBootstrapConfig(), probe, perm, ready)
//	scene.SetBootstrap(boot)
//	boot.Start()
//
//	arview.Run(scene, arview.RunConfig{Title: "AR Video", Width: 720, Height: 1280})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Gestures
//
// A [GestureInterpreter] turns touch lists into transform writes. One finger
// drags the target in the camera plane, two fingers scale it relative to the
// scale it had when the pinch began, clamped to [GestureConfig.MinScale] and
// [GestureConfig.MaxScale]. The Scene hit-tests the first finger of each
// contact against projected surfaces and routes the whole contact to the
// interpreter it hit.
//
// # Bootstrap
//
// [Bootstrap] owns the session phase: CheckingSupport, RequestingPermission,
// AwaitingScene, then Ready or Failed. Collaborator calls run off the update
// goroutine and report back through a mailbox drained by [Bootstrap.Update],
// so all state changes happen on one goroutine. A frame-driven [Watchdog]
// retries a stalled scene load up to MaxRetries times before failing.
//
// Events can be forwarded to a [Donburi] world with the arview/ecs adapter.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package arview
