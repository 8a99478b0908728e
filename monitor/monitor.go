// Package monitor is a terminal UI that shows the OSC traffic a translator
// sends: the latest value of every address and how often it was received.
package monitor

import (
	"fmt"
	"net"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/conundrumer/vst-plugins/osc"
)

// PacketMsg delivers one received packet to the model.
type PacketMsg struct {
	Packet osc.Packet
	From   net.Addr
}

// Row is the state shown for one address.
type Row struct {
	Address string
	Value   string
	Timetag osc.Timetag
	Count   int
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	addressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the bubbletea model of the monitor.
type Model struct {
	incoming <-chan PacketMsg
	rows     map[string]*Row
	packets  int
	from     string
	width    int
	quitting bool
}

// New returns a model reading packets from incoming. A nil channel makes
// the model rely on PacketMsg values sent to the program directly.
func New(incoming <-chan PacketMsg) Model {
	return Model{incoming: incoming, rows: make(map[string]*Row)}
}

// Listen waits for the next packet on incoming.
func Listen(incoming <-chan PacketMsg) tea.Cmd {
	if incoming == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-incoming
		if !ok {
			return tea.Quit()
		}
		return msg
	}
}

func (m Model) Init() tea.Cmd {
	return Listen(m.incoming)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "c":
			m.rows = make(map[string]*Row)
			m.packets = 0
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case PacketMsg:
		m.packets++
		if msg.From != nil {
			m.from = msg.From.String()
		}
		m.record(msg.Packet, 0)
		return m, Listen(m.incoming)
	}
	return m, nil
}

func (m Model) record(p osc.Packet, tt osc.Timetag) {
	switch p := p.(type) {
	case *osc.Bundle:
		for _, e := range p.Elements {
			m.record(e, p.Timetag)
		}
	case *osc.Message:
		r, ok := m.rows[p.Address]
		if !ok {
			r = &Row{Address: p.Address}
			m.rows[p.Address] = r
		}
		r.Value = formatArguments(p.Arguments)
		r.Timetag = tt
		r.Count++
	}
}

func formatArguments(args []interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch a := a.(type) {
		case float32:
			parts[i] = fmt.Sprintf("%.3f", a)
		case []byte:
			parts[i] = fmt.Sprintf("blob(%d)", len(a))
		case nil:
			parts[i] = "nil"
		default:
			parts[i] = fmt.Sprint(a)
		}
	}
	return strings.Join(parts, " ")
}

// Rows returns the recorded rows sorted by address.
func (m Model) Rows() []Row {
	rows := make([]Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Address < rows[j].Address })
	return rows
}

// Latest returns the row of address.
func (m Model) Latest(address string) (Row, bool) {
	r, ok := m.rows[address]
	if !ok {
		return Row{}, false
	}
	return *r, true
}

// Packets returns the number of packets received.
func (m Model) Packets() int {
	return m.packets
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("oscify monitor"))
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render(fmt.Sprintf("%d packets %s", m.packets, m.from)))

	rows := m.Rows()
	width := 0
	for _, r := range rows {
		if len(r.Address) > width {
			width = len(r.Address)
		}
	}
	for _, r := range rows {
		addr := addressStyle.Render(fmt.Sprintf("%-*s", width, r.Address))
		fmt.Fprintf(&b, "%s  %s  %s\n", addr, valueStyle.Render(r.Value),
			dimStyle.Render(fmt.Sprintf("x%d", r.Count)))
	}
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("waiting for packets") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("c: clear  q: quit"))
	return b.String()
}
