// Package tui implements the interactive chat session for asking the
// indexed document multiple questions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driving"
)

// exchange is one question and its answer in the session transcript.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// Chat is the Bubble Tea model for the question and answer session.
type Chat struct {
	pipeline driving.PipelineService
	title    string

	input    textinput.Model
	viewport viewport.Model

	history []exchange
	waiting bool
	ready   bool
}

// NewChat creates the chat model for the given document title.
func NewChat(pipeline driving.PipelineService, title string) Chat {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Chat{
		pipeline: pipeline,
		title:    title,
		input:    ti,
		viewport: viewport.New(0, 0),
	}
}

// Init starts the text input cursor blink.
func (m Chat) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer events.
func (m Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := transcriptStyle.GetFrameSize()
		reserved := 4 // header, input, status, spacer
		height := msg.Height - reserved - frameH
		if height < 3 {
			height = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = height
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.waiting = true
			m.input.SetValue("")
			return m, m.askCmd(question)
		}

	case answerMsg:
		m.waiting = false
		m.history = append(m.history, exchange{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the session layout.
func (m Chat) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Finsight: " + m.title)
	transcript := transcriptStyle.Render(m.viewport.View())
	input := m.input.View()

	status := statusStyle.Render("enter to ask, esc to quit")
	if m.waiting {
		status = statusStyle.Render("Thinking...")
	}

	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// askCmd runs the query path off the update loop.
func (m Chat) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.pipeline.Answer(context.Background(), question, 0)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m Chat) renderTranscript() string {
	if len(m.history) == 0 {
		return "Ask a question about the document."
	}

	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("Q: " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(errorStyle.Render("Error: " + ex.err.Error()))
			continue
		}
		b.WriteString(ex.answer.Text)
		if len(ex.answer.Sources) > 0 {
			b.WriteString("\n")
			for _, src := range ex.answer.Sources {
				b.WriteString(sourceStyle.Render(
					fmt.Sprintf("  page %d (%.3f) %s", src.Chunk.Page, src.Similarity, src.Excerpt(60))))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
