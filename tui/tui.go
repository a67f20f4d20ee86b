package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface wrapping a Session.
type TUI struct {
	Session *Session
	App     *tview.Application

	MainLayout *tview.Flex

	RegisterView *tview.TextView
	MemoryView   *tview.TextView
	SourceView   *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	MemoryAddress uint16
}

// NewTUI builds a TUI around session.
func NewTUI(session *Session) *TUI {
	t := &TUI{
		Session: session,
		App:     tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.RegisterView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	leftPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 3, false)

	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.MemoryView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(leftPanel, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 6, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			t.executeCommand("step")
			return nil
		case tcell.KeyF5:
			t.executeCommand("run")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
	t.CommandInput.SetText("")
}

func (t *TUI) executeCommand(cmd string) {
	output, err := t.Session.ExecuteCommand(cmd)
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	} else if output != "" {
		t.WriteOutput(output + "\n")
	}
	if strings.EqualFold(strings.Fields(cmd)[0], "quit") || strings.EqualFold(strings.Fields(cmd)[0], "q") {
		t.App.Stop()
		return
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output pane.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every pane from current session state.
func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateMemoryView()
	t.updateSourceView()
	t.App.Draw()
}

func (t *TUI) updateRegisterView() {
	r := t.Session.CPU.Reg
	lines := []string{
		fmt.Sprintf("[yellow]A[white]=%02X  [yellow]F[white]=%s%s", r.A, flagChar("Z", r.Flags.Z), flagChar("C", r.Flags.C)),
		fmt.Sprintf("[yellow]B[white]=%02X  [yellow]C[white]=%02X", r.B, r.C),
		fmt.Sprintf("[yellow]D[white]=%02X  [yellow]E[white]=%02X", r.D, r.E),
		fmt.Sprintf("[yellow]H[white]=%02X  [yellow]L[white]=%02X", r.H, r.L),
		fmt.Sprintf("[yellow]SP[white]=%04X  [yellow]PC[white]=%04X", r.SP, r.PC),
		fmt.Sprintf("[yellow]AF'[white]=%02X%s", r.ShadowA, flagChar("Z", r.ShadowFlags.Z)),
	}
	if t.Session.Halted {
		lines = append(lines, "[red]HALTED[white]")
	}
	for _, w := range t.Session.WatchValues() {
		lines = append(lines, "[green]"+w+"[white]")
	}
	t.RegisterView.SetText(strings.Join(lines, "\n"))
}

func flagChar(name string, set bool) string {
	if set {
		return name
	}
	return "-"
}

func (t *TUI) updateMemoryView() {
	base := t.Session.CPU.Reg.HL() &^ 0x0F
	var lines []string
	for row := uint16(0); row < 8; row++ {
		addr := base + row*16
		var b strings.Builder
		fmt.Fprintf(&b, "%04X: ", addr)
		for col := uint16(0); col < 16; col++ {
			a := addr + col
			fmt.Fprintf(&b, "%02X ", t.Session.Memory[a])
		}
		lines = append(lines, b.String())
	}
	t.MemoryView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateSourceView() {
	pc := uint16(0)
	if t.Session.Result != nil {
		pc = t.Session.CPU.Reg.PC
	}
	var lines []string
	for _, d := range t.Session.Result.Details {
		if !d.Valid {
			continue
		}
		marker := "  "
		color := "white"
		if uint16(d.StartAddress) == pc {
			marker = "->"
			color = "yellow"
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %04X: %s[white]", color, marker, d.StartAddress, strings.TrimSpace(d.Source)))
	}
	t.SourceView.SetText(strings.Join(lines, "\n"))
}

// Run starts the tview event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.MainLayout, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the tview event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}
