// Package menu implements the line-based interactive menu.
package menu

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"followdiff/pkg/diff"
	"followdiff/pkg/errors"
	"followdiff/pkg/logger"
	"followdiff/pkg/report"
	"followdiff/pkg/ui"
)

// State is a node of the menu state machine
type State int

const (
	MainMenu State = iota
	Download
	Compare
	Exit
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main_menu"
	case Download:
		return "download"
	case Compare:
		return "compare"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const separator = "##############################\n\n"

// Downloader captures a snapshot for a handle typed by the operator
type Downloader interface {
	Download(ctx context.Context, input string) (string, error)
}

// DownloaderFunc adapts a function to Downloader
type DownloaderFunc func(ctx context.Context, input string) (string, error)

func (f DownloaderFunc) Download(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}

// Comparer diffs two snapshot files
type Comparer func(oldPath, newPath string) (*diff.Result, error)

// Menu drives the interactive session
type Menu struct {
	in         *bufio.Reader
	out        io.Writer
	downloader Downloader
	compare    Comparer
	logger     logger.Logger
	format     string
	state      State
}

// Option configures a Menu
type Option func(*Menu)

// WithComparer replaces diff.Compare
func WithComparer(c Comparer) Option {
	return func(m *Menu) { m.compare = c }
}

// WithFormat selects the report format used after a comparison
func WithFormat(format string) Option {
	return func(m *Menu) { m.format = format }
}

// New creates a menu reading operator input from in and writing to out
func New(in io.Reader, out io.Writer, downloader Downloader, log logger.Logger, opts ...Option) *Menu {
	if log == nil {
		log = logger.NewNopLogger()
	}
	m := &Menu{
		in:         bufio.NewReader(in),
		out:        out,
		downloader: downloader,
		compare:    diff.Compare,
		logger:     log.WithField("component", "menu"),
		format:     report.FormatText,
		state:      MainMenu,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state
func (m *Menu) State() State {
	return m.state
}

// Run loops until the operator exits, input ends, or ctx is cancelled
func (m *Menu) Run(ctx context.Context) error {
	for m.state != Exit {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.state = m.Step(ctx)
	}
	return nil
}

// Step handles the current state and returns the next one
func (m *Menu) Step(ctx context.Context) State {
	var next State
	switch m.state {
	case MainMenu:
		next = m.mainMenu()
	case Download:
		next = m.download(ctx)
	case Compare:
		next = m.compareFiles()
	default:
		next = Exit
	}

	m.logger.DebugWithFields("menu transition", map[string]interface{}{
		"from": m.state.String(),
		"to":   next.String(),
	})
	return next
}

func (m *Menu) mainMenu() State {
	fmt.Fprintln(m.out, "SELECT AN OPTION:")
	fmt.Fprintln(m.out, "  [1] Download the last contacts for")
	fmt.Fprintln(m.out, "  [2] Compare 2 .xml files")
	fmt.Fprintln(m.out, "  [3] Exit")

	line, err := m.prompt("Option: ")
	if err != nil {
		return Exit
	}

	next := MainMenu
	option, convErr := strconv.Atoi(strings.TrimSpace(line))
	switch {
	case convErr != nil:
		fmt.Fprintln(m.out, "\nIncorrect format.")
	case option < 1 || option > 3:
		fmt.Fprintln(m.out, "\nIncorrect option.")
	default:
		next = State(option)
	}

	fmt.Fprint(m.out, separator)
	return next
}

func (m *Menu) download(ctx context.Context) State {
	handle, err := m.prompt("Enter username (or ENTER to exit): ")
	if err != nil {
		return Exit
	}
	fmt.Fprintln(m.out)

	if handle != "" && handle != "@" {
		path, err := m.downloader.Download(ctx, handle)
		if err != nil {
			m.reportError("Download failed", err)
		} else {
			fmt.Fprintln(m.out, ui.Green("Snapshot saved to "+path))
		}
	}

	fmt.Fprint(m.out, separator)
	return MainMenu
}

func (m *Menu) compareFiles() State {
	oldPath, err := m.prompt("Enter the path of the old .xml file: ")
	if err != nil {
		return Exit
	}
	newPath, err := m.prompt("Enter the path of the new .xml file: ")
	if err != nil {
		return Exit
	}

	if !isFile(oldPath) || !isFile(newPath) {
		fmt.Fprintln(m.out, "\nFiles not found.")
	} else {
		fmt.Fprintln(m.out)
		result, err := m.compare(oldPath, newPath)
		if err != nil {
			m.reportError("Comparison failed", err)
		} else {
			for _, w := range result.Warnings {
				m.logger.WithField("detail", w).Warn("snapshot count mismatch")
			}
			if err := report.Render(m.out, result, m.format); err != nil {
				m.reportError("Failed to render report", err)
			}
		}
	}

	fmt.Fprint(m.out, separator)
	return MainMenu
}

// prompt prints label and reads one line without its line ending. It returns
// io.EOF only when input ended before any character was read.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && !(stderrors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(m.out)
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func (m *Menu) reportError(msg string, err error) {
	m.logger.WithError(err).WithField("type", string(errors.TypeOf(err))).Warn(msg)
	fmt.Fprintln(m.out, ui.Red(msg+": "+err.Error()))
	if errors.IsTransient(errors.TypeOf(err)) {
		fmt.Fprintln(m.out, ui.Yellow("This may be temporary; try again later."))
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
