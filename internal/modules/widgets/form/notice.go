package form

import "time"

const DefaultNoticeTTL = 4 * time.Second

// Notice is a transient message that hides itself once its TTL has passed.
type Notice struct {
	ttl     time.Duration
	clock   func() time.Time
	msg     string
	shownAt time.Time
	visible bool
}

func NewNotice(ttl time.Duration, clock func() time.Time) *Notice {
	if clock == nil {
		clock = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notice{ttl: ttl, clock: clock}
}

func (n *Notice) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		n.ttl = ttl
	}
}

// Remaining is how long the current message stays visible, or zero when
// nothing is shown.
func (n *Notice) Remaining() time.Duration {
	if _, ok := n.Message(); !ok {
		return 0
	}
	return max(n.ttl-n.clock().Sub(n.shownAt), 0)
}

// Show replaces any current message and restarts the timer.
func (n *Notice) Show(msg string) {
	n.msg = msg
	n.shownAt = n.clock()
	n.visible = true
}

func (n *Notice) Dismiss() {
	n.msg = ""
	n.visible = false
}

// Message returns the visible message, if any.
func (n *Notice) Message() (string, bool) {
	if !n.visible {
		return "", false
	}
	if n.clock().Sub(n.shownAt) >= n.ttl {
		n.Dismiss()
		return "", false
	}
	return n.msg, true
}
