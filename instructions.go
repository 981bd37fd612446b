package arview

import "fmt"

// InstructionsShownKey is the store key of the first-run instructions flag.
const InstructionsShownKey = "instructionsShown"

// KeyValueStore persists small string values by name.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// ShowInstructionsOnce reports whether the first-run instructions should be
// shown, and records that they have been. It returns true at most once per
// store. When the flag cannot be persisted the instructions are still shown
// and the write error is returned.
func ShowInstructionsOnce(store KeyValueStore, view *ViewState) (bool, error) {
	if view.InstructionsShown {
		return false, nil
	}
	v, ok, err := store.Get(InstructionsShownKey)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", InstructionsShownKey, err)
	}
	view.InstructionsShown = true
	if ok && v == "true" {
		return false, nil
	}
	if err := store.Set(InstructionsShownKey, "true"); err != nil {
		return true, fmt.Errorf("write %s: %w", InstructionsShownKey, err)
	}
	return true, nil
}
