package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/satriahrh/jurubahasa/domain"
	"github.com/satriahrh/jurubahasa/domain/entities"
)

const (
	defaultFrameInterval = 300 * time.Millisecond
	soundwaveCycles      = 6
	defaultTextWidth     = 70
	listHeight           = 6
	placeholder          = "Select Language"
)

var soundwaveFrames = [...]string{"~ ~ ", " ~ ~ ", " ~ ~ ~ ~"}

type statusKind int

const (
	statusPlain statusKind = iota
	statusInfo
	statusError
	statusSuccess
)

// Service is the pipeline the panel drives
type Service interface {
	Start(ctx context.Context, targetLanguageCode string) (string, error)
	Running() bool
}

// Options configure a Model
type Options struct {
	// FrameInterval is the soundwave frame duration
	FrameInterval time.Duration
	// InitialLanguage preselects a language by code or name
	InitialLanguage string
	// StartupError is shown once when the audio device could not be initialized
	StartupError error
}

type modal struct {
	title   string
	message string
}

// Model is the bubbletea model for the control panel
type Model struct {
	ctx       context.Context
	service   Service
	languages entities.LanguageTable
	logger    *zap.Logger

	cursor   int
	selected int // -1 until the user picks a language

	recognized       string
	translated       string
	translatedFailed bool
	status           string
	statusKind       statusKind

	running bool
	runID   string

	frameInterval time.Duration
	wave          string
	waveGen       int
	waveStep      int

	modal    *modal
	width    int
	quitting bool
}

// NewModel creates a panel bound to the service. ctx is passed to every run.
func NewModel(ctx context.Context, service Service, languages entities.LanguageTable, opts Options, logger *zap.Logger) Model {
	m := Model{
		ctx:           ctx,
		service:       service,
		languages:     languages,
		logger:        logger,
		selected:      -1,
		frameInterval: opts.FrameInterval,
	}
	if m.frameInterval <= 0 {
		m.frameInterval = defaultFrameInterval
	}

	if opts.InitialLanguage != "" {
		if lang, err := languages.Lookup(opts.InitialLanguage); err == nil {
			for i := 0; i < languages.Len(); i++ {
				if languages.At(i).Code == lang.Code {
					m.cursor, m.selected = i, i
				}
			}
		} else {
			logger.Warn("Ignoring unknown initial language", zap.String("language", opts.InitialLanguage))
		}
	}

	if opts.StartupError != nil {
		m.modal = &modal{
			title:   "Audio Initialization Error",
			message: fmt.Sprintf("Could not initialize audio: %v", opts.StartupError),
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Update applies key presses and display updates from the worker
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case soundwaveMsg:
		return m.handleSoundwave(msg)

	case domain.StatusChanged:
		if msg.RunID != m.runID {
			return m, nil
		}
		m.status = msg.Text
		switch msg.State {
		case entities.RunStateDone:
			m.statusKind = statusSuccess
		case entities.RunStateFailed:
			m.statusKind = statusError
			m.stopSoundwave()
		default:
			m.statusKind = statusInfo
		}
		if msg.State == entities.RunStateTranslating {
			cmd := m.startSoundwave()
			return m, cmd
		}
		return m, nil

	case domain.RecognizedTextReady:
		if msg.RunID == m.runID {
			m.recognized = msg.Text
		}
		return m, nil

	case domain.TranslatedTextReady:
		if msg.RunID == m.runID {
			m.translated = msg.Text
			m.translatedFailed = msg.Failed
		}
		return m, nil

	case domain.ErrorRaised:
		m.modal = &modal{title: msg.Title, message: msg.Message}
		return m, nil

	case domain.RunFinished:
		if msg.Run.ID == m.runID {
			m.running = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// any key dismisses the notification
	if m.modal != nil {
		m.modal = nil
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < m.languages.Len()-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Select):
		if m.languages.Len() > 0 {
			m.selected = m.cursor
		}

	case key.Matches(msg, keys.Start):
		return m.start()
	}
	return m, nil
}

// start launches a run. It never blocks: the worker reports progress through the notifier.
func (m Model) start() (tea.Model, tea.Cmd) {
	if m.running || m.service.Running() {
		return m, nil
	}

	runID, err := m.service.Start(m.ctx, m.selectedCode())
	if err != nil {
		var derr *domain.Error
		if errors.As(err, &derr) {
			m.status = derr.Status()
			m.statusKind = statusError
			return m, nil
		}
		m.logger.Warn("Translation not started", zap.Error(err))
		return m, nil
	}

	m.running = true
	m.runID = runID
	m.recognized = ""
	m.translated = ""
	m.translatedFailed = false
	m.status = entities.RunStateListening.StatusText()
	m.statusKind = statusInfo
	return m, nil
}

func (m Model) selectedCode() string {
	if m.selected < 0 || m.selected >= m.languages.Len() {
		return ""
	}
	return m.languages.At(m.selected).Code
}

func (m *Model) startSoundwave() tea.Cmd {
	m.waveGen++
	m.waveStep = 0
	m.wave = soundwaveFrames[0]
	return m.soundwaveTick()
}

func (m *Model) stopSoundwave() {
	m.waveGen++
	m.wave = ""
}

func (m Model) handleSoundwave(msg soundwaveMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.waveGen {
		return m, nil
	}
	m.waveStep++
	if m.waveStep >= len(soundwaveFrames)*soundwaveCycles {
		m.wave = ""
		return m, nil
	}
	m.wave = soundwaveFrames[m.waveStep%len(soundwaveFrames)]
	return m, m.soundwaveTick()
}

func (m Model) soundwaveTick() tea.Cmd {
	gen := m.waveGen
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return soundwaveMsg{gen: gen}
	})
}

func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.modal != nil {
		return m.renderModal()
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Speech Translation Assistant") + "\n")
	sb.WriteString(instructionStyle.Render("Select a language and press 's' to translate your speech.") + "\n\n")

	sb.WriteString(labelStyle.Render("Select Language: ") + m.selectedLabel() + "\n")
	sb.WriteString(m.renderLanguages() + "\n")

	textWidth := defaultTextWidth
	if m.width > 4 && m.width-4 < textWidth {
		textWidth = m.width - 4
	}

	sb.WriteString(labelStyle.Render("Recognized Text:") + "\n")
	sb.WriteString(textBoxStyle.Width(textWidth).Render(m.recognized) + "\n")

	translated := m.translated
	if m.translatedFailed {
		translated = failedTextStyle.Render(translated)
	}
	sb.WriteString(labelStyle.Render("Translated Text:") + "\n")
	sb.WriteString(textBoxStyle.Width(textWidth).Render(translated) + "\n\n")

	sb.WriteString(statusStyles[m.statusKind].Render(m.status) + "\n")
	sb.WriteString(soundwaveStyle.Render(m.wave) + "\n\n")
	sb.WriteString(m.renderHelp())

	return sb.String()
}

func (m Model) selectedLabel() string {
	code := m.selectedCode()
	if code == "" {
		return instructionStyle.Render(placeholder)
	}
	return selectedStyle.Render(m.languages.At(m.selected).Name)
}

// renderLanguages shows a window of the table around the cursor
func (m Model) renderLanguages() string {
	n := m.languages.Len()
	start := m.cursor - listHeight/2
	if start > n-listHeight {
		start = n - listHeight
	}
	if start < 0 {
		start = 0
	}
	end := start + listHeight
	if end > n {
		end = n
	}

	var lines []string
	for i := start; i < end; i++ {
		lang := m.languages.At(i)
		line := fmt.Sprintf("  %s (%s)", lang.Name, lang.Code)
		if i == m.cursor {
			line = cursorStyle.Render("> " + lang.Name + " (" + lang.Code + ")")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range keys.bindings() {
		desc := b.Help().Desc
		if b.Help().Key == keys.Start.Help().Key && m.running {
			desc += " (busy)"
		}
		parts = append(parts, b.Help().Key+" "+desc)
	}
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m Model) renderModal() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		modalTitleStyle.Render(m.modal.title),
		"",
		m.modal.message,
		"",
		helpStyle.Render("press any key to continue"),
	)
	return modalStyle.Render(body) + "\n"
}
