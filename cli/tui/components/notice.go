package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/storerate/storerate/cli/tui/styles"
)

// DefaultNoticeTTL is how long a notice stays up without a configured TTL
const DefaultNoticeTTL = 3 * time.Second

// NoticeKind selects the notice styling
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// Notice is a single transient message slot. Showing a new notice replaces
// the current one and an expiry tick only clears the notice that scheduled it.
type Notice struct {
	id      int
	kind    NoticeKind
	text    string
	visible bool
	ttl     time.Duration
}

// NoticeExpiredMsg clears the notice with the matching ID
type NoticeExpiredMsg struct {
	ID int
}

// NewNotice creates an empty notice slot
func NewNotice(ttl time.Duration) Notice {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return Notice{ttl: ttl}
}

// Show displays text and returns the tick that will clear it
func (n *Notice) Show(kind NoticeKind, text string) tea.Cmd {
	n.id++
	n.kind = kind
	n.text = text
	n.visible = true
	id := n.id
	return tea.Tick(n.ttl, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{ID: id}
	})
}

// Success shows a success notice
func (n *Notice) Success(text string) tea.Cmd {
	return n.Show(NoticeSuccess, text)
}

// Error shows an error notice
func (n *Notice) Error(text string) tea.Cmd {
	return n.Show(NoticeError, text)
}

// Info shows an informational notice
func (n *Notice) Info(text string) tea.Cmd {
	return n.Show(NoticeInfo, text)
}

// Dismiss hides the current notice
func (n *Notice) Dismiss() {
	n.visible = false
	n.text = ""
}

// Update handles expiry ticks
func (n *Notice) Update(msg tea.Msg) {
	if expired, ok := msg.(NoticeExpiredMsg); ok && expired.ID == n.id {
		n.Dismiss()
	}
}

// Visible reports whether a notice is showing
func (n *Notice) Visible() bool {
	return n.visible
}

// Text returns the current notice text
func (n *Notice) Text() string {
	return n.text
}

// Kind returns the current notice kind
func (n *Notice) Kind() NoticeKind {
	return n.kind
}

// ID returns the identifier of the most recent notice
func (n *Notice) ID() int {
	return n.id
}

// View renders the notice line
func (n *Notice) View() string {
	if !n.visible {
		return ""
	}
	switch n.kind {
	case NoticeSuccess:
		return styles.SuccessStyle.Render("✔ " + n.text)
	case NoticeError:
		return styles.ErrorStyle.Render("✖ " + n.text)
	default:
		return styles.InfoStyle.Render("ℹ " + n.text)
	}
}
