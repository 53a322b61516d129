// Package report renders a diff result for the operator.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"followdiff/pkg/diff"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const rule = "*****************************"

// Summary is the serialisable form of a diff result. Handles are sorted.
type Summary struct {
	Old          string   `json:"old,omitempty" yaml:"old,omitempty"`
	New          string   `json:"new,omitempty" yaml:"new,omitempty"`
	Unfollows    []string `json:"unfollows" yaml:"unfollows"`
	NewFollowers []string `json:"new_followers" yaml:"new_followers"`
	Unfollowing  []string `json:"unfollowing" yaml:"unfollowing"`
	NewFollowing []string `json:"new_following" yaml:"new_following"`
	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Summarize converts a result into its serialisable form
func Summarize(r *diff.Result) Summary {
	return Summary{
		Old:          r.OldPath,
		New:          r.NewPath,
		Unfollows:    r.Unfollows.Sorted(),
		NewFollowers: r.NewFollowers.Sorted(),
		Unfollowing:  r.Unfollowing.Sorted(),
		NewFollowing: r.NewFollowing.Sorted(),
		Warnings:     r.Warnings,
	}
}

// Render writes r to w in the given format
func Render(w io.Writer, r *diff.Result, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return renderText(w, Summarize(r))
	case FormatJSON:
		data, err := json.MarshalIndent(Summarize(r), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Summarize(r)); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func renderText(w io.Writer, s Summary) error {
	sections := []struct {
		title   string
		handles []string
	}{
		{"UNFOLLOWS", s.Unfollows},
		{"NEW FOLLOWERS", s.NewFollowers},
		{"UNFOLLOWING", s.Unfollowing},
		{"NEW FOLLOWING", s.NewFollowing},
	}

	var b strings.Builder
	for _, sec := range sections {
		b.WriteString(rule + "\n")
		b.WriteString(banner(sec.title) + "\n")
		b.WriteString(rule + "\n")
		for _, h := range sec.handles {
			b.WriteString(h + "\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// banner centres title between asterisks on a line as wide as rule
func banner(title string) string {
	padded := " " + title + " "
	total := len(rule) - len(padded)
	if total < 2 {
		return padded
	}
	left := total / 2
	right := total - left
	return strings.Repeat("*", left) + padded + strings.Repeat("*", right)
}
