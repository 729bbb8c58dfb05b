package ui

import (
	"context"
	"doc-chat/domain/search"
	"doc-chat/errors"
	"doc-chat/render"
	"doc-chat/services"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const maxSearchLines = 5

type chatView struct {
	ctx     context.Context
	chat    *services.ChatService
	history *services.HistoryService
	styles  render.Styles

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	thinking  bool
	searching bool
	errMsg    string
	notes     []string
	width     int
	height    int
}

func newChatView(ctx context.Context, chat *services.ChatService, history *services.HistoryService, styles render.Styles, width, height int) chatView {
	ta := textarea.New()
	ta.Placeholder = "Ask a question about the document... (/search terms to search history)"
	ta.Focus()
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := chatView{
		ctx:      ctx,
		chat:     chat,
		history:  history,
		styles:   styles,
		viewport: viewport.New(width, height),
		textarea: ta,
		spinner:  sp,
	}
	m = m.setSize(width, height)
	m.refresh()
	return m
}

func (m chatView) Init() tea.Cmd {
	return textarea.Blink
}

func (m chatView) setSize(width, height int) chatView {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-4, minBubbleWidth)
	m.viewport.Height = max(height-14, 3)
	m.textarea.SetWidth(max(width-4, minBubbleWidth))
	m.refresh()
	return m
}

// refresh redraws the conversation from the service snapshot.
func (m *chatView) refresh() {
	m.viewport.SetContent(renderConversation(m.chat.Messages(), m.viewport.Width, m.styles))
	m.viewport.GotoBottom()
}

func (m chatView) Update(msg tea.Msg) (chatView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.thinking {
				return m, nil
			}
			m.chat.Close()
			return m, closed
		case "enter":
			if m.thinking || m.searching {
				return m, nil
			}
			return m.submit()
		}

	case answerMsg:
		m.thinking = false
		if msg.err != nil {
			var askErr *services.AskError
			if stderrors.As(msg.err, &askErr) {
				m.errMsg = askErr.Message()
			} else {
				m.errMsg = services.QueryFallback
			}
		}
		m.refresh()
		return m, nil

	case searchMsg:
		m.searching = false
		if msg.err != nil {
			if stderrors.Is(msg.err, errors.ErrHistoryDisabled) {
				m.errMsg = "Search needs local history (set HISTORY_DIR)."
			} else {
				m.errMsg = "Search failed. Please try again."
			}
			return m, nil
		}
		m.notes = searchNotes(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.thinking && !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	if !m.thinking {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m chatView) submit() (chatView, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	m.errMsg = ""
	m.notes = nil

	if search.IsSearchCommand(input) {
		m.textarea.Reset()
		m.searching = true
		return m, tea.Batch(searchHistory(m.ctx, m.history, input), m.spinner.Tick)
	}

	question, err := m.chat.Post(input)
	if err != nil {
		m.errMsg = services.Capitalize(err.Error())
		return m, nil
	}
	m.textarea.Reset()
	m.thinking = true
	m.refresh()
	return m, tea.Batch(resolveQuestion(m.ctx, m.chat, question), m.spinner.Tick)
}

func (m chatView) View() string {
	var b strings.Builder
	b.WriteString(frameStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	switch {
	case m.thinking:
		b.WriteString(m.spinner.View() + " Thinking...")
	case m.searching:
		b.WriteString(m.spinner.View() + " Searching history...")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case len(m.notes) > 0:
		b.WriteString(strings.Join(m.notes, "\n"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: Send • Alt+Enter: New line • Esc: Upload another document • Ctrl+C: Quit"))
	return b.String()
}

func searchNotes(msg searchMsg) []string {
	if len(msg.hits) == 0 {
		return []string{statusBarStyle.Render(fmt.Sprintf("No stored message matches %q.", msg.query))}
	}
	notes := []string{infoStyle.Render(fmt.Sprintf("%d match(es) for %q:", len(msg.hits), msg.query))}
	for i, hit := range msg.hits {
		if i == maxSearchLines {
			notes = append(notes, statusBarStyle.Render(fmt.Sprintf("... %d more", len(msg.hits)-i)))
			break
		}
		content := strings.Join(strings.Fields(hit.Message.Content), " ")
		if r := []rune(content); len(r) > 60 {
			content = string(r[:60]) + "…"
		}
		notes = append(notes, fmt.Sprintf("  [%s] %s: %s", hit.Message.DocumentID, hit.Message.Role, content))
	}
	return notes
}
