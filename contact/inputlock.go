package contact

// LockReason says why creature input is ignored.
type LockReason uint8

const (
	LockNone LockReason = iota
	LockContact
	LockRepelling
	LockRecovering
)

func (r LockReason) String() string {
	switch r {
	case LockContact:
		return "contact"
	case LockRepelling:
		return "repelling"
	case LockRecovering:
		return "recovering"
	default:
		return "none"
	}
}

// InputLock gates keyboard and autopilot steering during a contact
// response.
type InputLock struct {
	reason    LockReason
	locked    bool
	LockCount int
}

// Lock engages the lock. Relocking an already locked input only updates
// the reason.
func (l *InputLock) Lock(reason LockReason) {
	if !l.locked {
		l.LockCount++
	}
	l.locked = true
	l.reason = reason
}

// SetReason changes the reason of a held lock; it is a no-op when unlocked.
func (l *InputLock) SetReason(reason LockReason) {
	if l.locked {
		l.reason = reason
	}
}

// Unlock releases the lock.
func (l *InputLock) Unlock() {
	l.locked = false
	l.reason = LockNone
}

// SyncColor derives the lock from a color state: shocked keeps the input
// locked as repelling, recovering as recovering, normal unlocks.
func (l *InputLock) SyncColor(s ColorState) {
	switch s {
	case ColorNormal:
		l.Unlock()
	case ColorShocked:
		if !l.locked {
			l.Lock(LockContact)
			return
		}
		l.SetReason(LockRepelling)
	case ColorRecovering:
		l.Lock(LockRecovering)
	}
}

// IsLocked reports whether input is ignored.
func (l *InputLock) IsLocked() bool { return l.locked }

// Reason returns the lock reason, LockNone when unlocked.
func (l *InputLock) Reason() LockReason { return l.reason }
