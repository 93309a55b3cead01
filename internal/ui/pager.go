package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// PagerOps opens files and generated content in the ov pager. It releases
// the terminal from Bubble Tea for the duration of the pager run.
type PagerOps struct {
	program *tea.Program
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowFileInPager opens a file at the given path in ov
func (p *PagerOps) ShowFileInPager(path string) error {
	return p.run(func() (*oviewer.Root, error) {
		return oviewer.Open(path)
	})
}

// ShowContentInPager shows pre-rendered content in ov
func (p *PagerOps) ShowContentInPager(content string) error {
	return p.run(func() (*oviewer.Root, error) {
		return oviewer.NewRoot(strings.NewReader(content))
	})
}

func (p *PagerOps) run(open func() (*oviewer.Root, error)) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := open()
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
