package dsync

// Stage represents a scheduling stage for system execution.
// Systems are executed in stage order: Before → Default → After.
// The deferred command queue is flushed between Default and After, so links
// established during a frame are visible to that frame's propagation passes.
type Stage int

const (
	// Before runs first. Use for input handling and setup logic that
	// other systems depend on.
	Before Stage = iota

	// Default runs second. Use for application logic that mutates
	// subject components.
	Default

	// After runs last. Change-propagation passes are scheduled here so
	// they observe everything the frame's logic wrote.
	After

	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}
