package dsync

// Command is a deferred, world-mutating operation. Commands are queued from
// anywhere and applied in order at the phase boundary between the Default and
// After stages, where they hold exclusive world access.
type Command interface {
	Apply(w *World)
}

// Queue appends a command to the world's deferred queue. The command runs at
// the next flush, not inline.
func (w *World) Queue(cmd Command) {
	if cmd == nil {
		return
	}
	w.commandsMu.Lock()
	w.commands = append(w.commands, cmd)
	w.commandsMu.Unlock()
}

// Flush applies all queued commands in submission order. Commands queued by
// a command being applied run within the same flush.
func (w *World) Flush() {
	for {
		w.commandsMu.Lock()
		pending := w.commands
		w.commands = nil
		w.commandsMu.Unlock()

		if len(pending) == 0 {
			return
		}
		for _, cmd := range pending {
			cmd.Apply(w)
		}
	}
}

// PendingCommands returns the number of queued, unapplied commands.
func (w *World) PendingCommands() int {
	w.commandsMu.Lock()
	defer w.commandsMu.Unlock()
	return len(w.commands)
}
