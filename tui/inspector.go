// Package tui is the interactive terminal inspector: step an
// architecture one cycle at a time and watch its stage registers, a hex
// dump of the memory rows around the program counter, and a raw dump of
// its propagation order.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"y86sim/arch"
	"y86sim/object"
)

type model struct {
	sim  arch.CpuSim
	mem  *object.Memory
	info *object.SourceInfo

	prevPC uint64
	err    error
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case " ", "j":
		if m.sim.IsTerminate() {
			return m, nil
		}
		m.prevPC = m.sim.ProgramCounter()
		m.sim.Step()
	}
	return m, nil
}

// renderMemory renders one 16-byte memory row as a line, with the
// byte at the current PC bracketed.
func (m model) renderMemory(start uint64) string {
	s := fmt.Sprintf("%#06x | ", start)
	for i := uint64(0); i < 16 && start+i < object.MemSize; i++ {
		b := m.mem.Bytes[start+i]
		if start+i == m.sim.ProgramCounter() {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) memoryWindow() string {
	pc := m.sim.ProgramCounter()
	base := pc &^ 0xf
	lines := []string{"addr    |  0   1   2   3   4   5   6   7   8   9   a   b   c   d   e   f"}
	for row := -2; row <= 2; row++ {
		addr := int64(base) + int64(row)*16
		if addr < 0 || uint64(addr) >= object.MemSize {
			continue
		}
		lines = append(lines, m.renderMemory(uint64(addr)))
	}
	return strings.Join(lines, "\n")
}

func (m model) status() string {
	regs := m.sim.Registers()
	return fmt.Sprintf(`
pc: %#x (was %#x)
cycle: %d   cost: %d
%%rax: %#x  %%rcx: %#x
%%rdx: %#x  %%rbx: %#x
%%rsp: %#x  %%rbp: %#x
terminated: %v
`,
		m.sim.ProgramCounter(), m.prevPC,
		m.sim.CycleCount(), m.sim.CycleCost(),
		regs[0], regs[1], regs[2], regs[3], regs[4], regs[5],
		m.sim.IsTerminate(),
	)
}

func (m model) stages() string {
	var b strings.Builder
	for _, st := range m.sim.StageInfo() {
		b.WriteString(st.Name + ": ")
		for _, sig := range st.Signals {
			b.WriteString(sig.Name + "=" + sig.Formatted + " ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.memoryWindow(), m.status()),
		"",
		m.stages(),
		"",
		spew.Sdump(m.sim.PropOrder()),
	)
}

// Run starts an interactive inspector over sim, whose memory image is
// mem and whose source annotations (if any) are info.
func Run(sim arch.CpuSim, mem *object.Memory, info *object.SourceInfo) error {
	p := tea.NewProgram(model{sim: sim, mem: mem, info: info})
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
