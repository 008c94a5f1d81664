package realtime

import (
	"sync"
	"time"
)

// resignalInterval bounds how often a repeated typing signal for the same
// (actor, target) pair is relayed. Clients re-emit on every keystroke; only
// the first signal per window goes out.
const resignalInterval = 2 * time.Second

// normalized form of TypingTarget for map keys: 0 means unset.
type typingTargetKey struct {
	userID  int
	groupID int
}

func targetKey(t TypingTarget) typingTargetKey {
	var k typingTargetKey
	if t.ReceiverID != nil {
		k.userID = *t.ReceiverID
	}
	if t.GroupID != nil {
		k.groupID = *t.GroupID
	}
	return k
}

// TypingTracker holds transient typing state per (actor, target) pair. The
// state is soft: it only exists to rate-limit relays and to know which
// targets need a synthetic stop when the actor disconnects. It is never
// persisted.
type TypingTracker struct {
	mu     sync.Mutex
	active map[int]map[typingTargetKey]time.Time
	now    func() time.Time
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		active: make(map[int]map[typingTargetKey]time.Time),
		now:    time.Now,
	}
}

// Begin records a typing signal and reports whether it should be relayed.
// The first signal for a pair always relays; repeats inside the re-signal
// window are suppressed.
func (t *TypingTracker) Begin(actor int, target TypingTarget) bool {
	key := targetKey(target)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active[actor] == nil {
		t.active[actor] = make(map[typingTargetKey]time.Time)
	}
	last, ok := t.active[actor][key]
	if ok && now.Sub(last) < resignalInterval {
		return false
	}
	t.active[actor][key] = now
	return true
}

// End clears typing state for a pair. The stop signal is always relayed
// regardless of tracked state, since indicators are best-effort.
func (t *TypingTracker) End(actor int, target TypingTarget) {
	key := targetKey(target)
	t.mu.Lock()
	defer t.mu.Unlock()
	if targets, ok := t.active[actor]; ok {
		delete(targets, key)
		if len(targets) == 0 {
			delete(t.active, actor)
		}
	}
}

// PurgeActor drops all typing state keyed by the actor and returns the
// targets that had active indicators, so the hub can emit synthetic stops on
// disconnect.
func (t *TypingTracker) PurgeActor(actor int) []TypingTarget {
	t.mu.Lock()
	defer t.mu.Unlock()
	targets := make([]TypingTarget, 0, len(t.active[actor]))
	for key := range t.active[actor] {
		var target TypingTarget
		if key.userID != 0 {
			userID := key.userID
			target.ReceiverID = &userID
		}
		if key.groupID != 0 {
			groupID := key.groupID
			target.GroupID = &groupID
		}
		targets = append(targets, target)
	}
	delete(t.active, actor)
	return targets
}

// ActiveTargets reports the targets the actor is currently typing to.
func (t *TypingTracker) ActiveTargets(actor int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active[actor])
}
