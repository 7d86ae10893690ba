package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cvmatch/cvmatch-cli/internal/cvmatch"
	"github.com/cvmatch/cvmatch-cli/internal/intake"
	"github.com/cvmatch/cvmatch-cli/internal/logger"
)

// field input order in the form.
const (
	inputFullName = iota
	inputEmail
	inputPhone
	inputCity
	inputSkill
	inputCount
)

var fieldNames = [...]string{
	inputFullName: intake.FieldFullName,
	inputEmail:    intake.FieldEmail,
	inputPhone:    intake.FieldPhone,
	inputCity:     intake.FieldCity,
}

var fieldLabels = [...]string{
	inputFullName: "Full name",
	inputEmail:    "Email",
	inputPhone:    "Phone",
	inputCity:     "City",
	inputSkill:    "Add skill",
}

type extractionDoneMsg struct {
	upload *cvmatch.CVUpload
	err    error
}

type submitDoneMsg struct {
	err error
}

// IntakeModel drives the verification form. All machine mutation
// happens inside Update; collaborator calls run as commands and report
// back through messages, so at most one call is in flight and input is
// ignored while it is.
type IntakeModel struct {
	machine   *intake.Machine
	extractor intake.Extractor
	updater   intake.Updater
	logger    *zap.Logger
	styles    *Styles

	spinner spinner.Model
	inputs  [inputCount]textinput.Model
	focus   int
	status  string

	err      error
	finished bool
}

// NewIntake builds the form for a machine that already has a validated
// document staged. The extraction starts on Init.
func NewIntake(machine *intake.Machine, extractor intake.Extractor, updater intake.Updater, log *zap.Logger) *IntakeModel {
	if log == nil {
		log = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &IntakeModel{
		machine:   machine,
		extractor: extractor,
		updater:   updater,
		logger:    log,
		styles:    DefaultStyles(),
		spinner:   sp,
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 128
		m.inputs[i] = ti
	}
	m.inputs[inputSkill].Placeholder = "type a skill, enter to add or remove"

	return m
}

// Err reports the failure that ended the program, if any.
func (m *IntakeModel) Err() error { return m.err }

// Finished reports whether the flow reached a successful submission.
func (m *IntakeModel) Finished() bool { return m.finished }

func (m *IntakeModel) Init() tea.Cmd {
	doc, err := m.machine.BeginUpload()
	if err != nil {
		m.err = err
		return tea.Quit
	}

	path := doc.Path

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		upload, err := m.extractor.UploadCV(path)
		return extractionDoneMsg{upload: upload, err: err}
	})
}

func (m *IntakeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case extractionDoneMsg:
		return m.handleExtractionDone(msg)

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *IntakeModel) handleExtractionDone(msg extractionDoneMsg) (tea.Model, tea.Cmd) {
	if err := m.machine.FinishUpload(msg.upload, msg.err); err != nil {
		m.err = fmt.Errorf("extraction failed: %w", err)
		return m, tea.Quit
	}

	draft := m.machine.Draft()
	m.inputs[inputFullName].SetValue(draft.FullName)
	m.inputs[inputEmail].SetValue(draft.Email)
	m.inputs[inputPhone].SetValue(draft.Phone)
	m.inputs[inputCity].SetValue(draft.City)

	m.focus = inputFullName

	return m, m.inputs[m.focus].Focus()
}

func (m *IntakeModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if err := m.machine.FinishSubmit(msg.err); err != nil {
		// Draft survives; the user can correct and retry.
		m.status = m.styles.Error.Render(fmt.Sprintf("saving failed: %v - press ctrl+s to retry", err))
		return m, m.inputs[m.focus].Focus()
	}

	m.finished = true

	return m, tea.Quit
}

func (m *IntakeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.machine.Cancel()
		return m, tea.Quit
	}

	// Controls are disabled while a collaborator call is in flight.
	if m.busy() {
		return m, nil
	}

	if m.machine.State() != intake.StateAwaitingVerification {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.machine.Cancel()
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		return m, m.setFocus((m.focus + 1) % inputCount)

	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFocus((m.focus + inputCount - 1) % inputCount)

	case tea.KeyEnter:
		if m.focus == inputSkill {
			m.toggleSkill()
			return m, nil
		}
		return m, m.setFocus((m.focus + 1) % inputCount)

	case tea.KeyCtrlS:
		return m.beginSubmit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	// Keep the machine's draft authoritative for the identity fields.
	if m.focus < inputSkill {
		if err := m.machine.EditField(fieldNames[m.focus], m.inputs[m.focus].Value()); err != nil {
			m.status = m.styles.Error.Render(err.Error())
		}
	}

	return m, cmd
}

// toggleSkill adds the typed skill, or removes it when it is already on
// the list.
func (m *IntakeModel) toggleSkill() {
	text := strings.TrimSpace(m.inputs[inputSkill].Value())
	if text == "" {
		return
	}

	if m.hasSkill(text) {
		_ = m.machine.RemoveSkill(text)
	} else {
		_ = m.machine.AddSkill(text)
	}

	m.inputs[inputSkill].Reset()
}

func (m *IntakeModel) hasSkill(skill string) bool {
	for _, s := range m.machine.Draft().Skills {
		if s == skill {
			return true
		}
	}

	return false
}

func (m *IntakeModel) beginSubmit() (tea.Model, tea.Cmd) {
	payload, err := m.machine.BeginSubmit()
	if err != nil {
		m.status = m.styles.Error.Render(err.Error())
		return m, nil
	}

	m.status = ""
	cvID := m.machine.CVID()

	m.logger.Debug("submitting verified data",
		logger.FlowFields("intake", m.machine.State().String())...)

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return submitDoneMsg{err: m.updater.UpdateCVData(cvID, payload)}
	})
}

func (m *IntakeModel) setFocus(target int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = target

	return m.inputs[m.focus].Focus()
}

func (m *IntakeModel) busy() bool {
	state := m.machine.State()

	return state == intake.StateUploading || state == intake.StateSubmitting
}

func (m *IntakeModel) View() string {
	switch m.machine.State() {
	case intake.StateUploading:
		return m.styles.Busy.Render(m.spinner.View() + " Extracting document data, please wait...")

	case intake.StateSubmitting:
		return m.styles.Busy.Render(m.spinner.View() + " Saving verified data...")

	case intake.StateDone:
		return m.styles.Success.Render("CV saved successfully.") + "\n"

	case intake.StateAwaitingVerification:
		return m.viewForm()
	}

	return ""
}

func (m *IntakeModel) viewForm() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Verify the extracted information"))
	b.WriteString("\n\n")

	for i := inputFullName; i <= inputCity; i++ {
		b.WriteString(m.styles.Label.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Skills"))
	b.WriteString("\n")

	badges := make([]string, 0, len(m.machine.Draft().Skills))
	for _, skill := range m.machine.Draft().Skills {
		badges = append(badges, m.styles.Badge.Render(skill))
	}
	if len(badges) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, badges...))
		b.WriteString("\n")
	}

	b.WriteString(m.inputs[inputSkill].View())
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("tab: next field - enter: add/remove skill - ctrl+s: save - esc: cancel"))
	b.WriteString("\n")

	return b.String()
}
