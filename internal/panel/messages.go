package panel

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain"
)

// soundwaveMsg advances the busy animation started with generation gen
type soundwaveMsg struct {
	gen int
}

// Notifier forwards display updates from the worker to the bubbletea program.
// The program's event loop delivers them to Model.Update in send order.
type Notifier struct {
	mu      sync.RWMutex
	program *tea.Program
	logger  *zap.Logger
}

var _ domain.Notifier = (*Notifier)(nil)

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Attach sets the program updates are sent to
func (n *Notifier) Attach(program *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = program
}

// Notify implements domain.Notifier. It blocks until the program accepts the
// update or has exited, and must not be called from Model.Update.
func (n *Notifier) Notify(update domain.DisplayUpdate) {
	n.mu.RLock()
	program := n.program
	n.mu.RUnlock()

	if program == nil {
		n.logger.Warn("Display update dropped, no program attached")
		return
	}
	program.Send(update)
}
