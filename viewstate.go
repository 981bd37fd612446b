package arview

import "fmt"

// msgPlayFailed is shown when the host refuses to start playback, usually
// because autoplay requires a user gesture.
const msgPlayFailed = "Unable to play video. Try tapping the play button."

// msgVideoLoadFailed is shown when the video source cannot be loaded.
const msgVideoLoadFailed = "Video failed to load. Please check your video file."

// Player is the host's video element.
type Player interface {
	Play() error
	Pause()
	SetMuted(muted bool)
	SetVolume(v float64)
}

// ViewState holds the viewer's UI flags. One value is shared by pointer
// between the scene and whatever drives the controls.
type ViewState struct {
	Playing           bool
	Muted             bool
	Volume            float64
	InstructionsShown bool
	// LastError is the most recent playback message for display, cleared by
	// the next successful play.
	LastError string
}

// NewViewState returns the initial state: paused, muted, full volume.
// Browsers only autoplay muted video, so playback starts muted.
func NewViewState() *ViewState {
	return &ViewState{Muted: true, Volume: 1}
}

// TogglePlayPause starts or pauses playback. A failed start leaves the
// state paused and records a message in LastError.
func (v *ViewState) TogglePlayPause(p Player) error {
	if v.Playing {
		p.Pause()
		v.Playing = false
		return nil
	}
	if err := p.Play(); err != nil {
		v.LastError = msgPlayFailed
		return fmt.Errorf("play video: %w", err)
	}
	v.Playing = true
	v.LastError = ""
	return nil
}

// ReportVideoError records a video load failure for display and stops
// playback. A nil err is ignored.
func (v *ViewState) ReportVideoError(err error) {
	if err == nil {
		return
	}
	v.Playing = false
	v.LastError = msgVideoLoadFailed
}

// ToggleMute flips the muted flag and applies it to the player.
func (v *ViewState) ToggleMute(p Player) {
	v.Muted = !v.Muted
	p.SetMuted(v.Muted)
}

// SetVolume clamps vol to [0, 1] and applies it to the player.
func (v *ViewState) SetVolume(p Player, vol float64) {
	v.Volume = clamp01(vol)
	p.SetVolume(v.Volume)
}
