package cmd

import (
	"errors"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tcnksm/go-input"
)

var errAborted = errors.New("aborted")

// newTable creates a table that renders to w.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// confirm asks a yes/no question. Anything but an explicit yes, including a
// closed input, is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	ui := &input.UI{Reader: in, Writer: out}
	answer, err := ui.Ask(prompt+" [y/N]", &input.Options{
		Default:      "n",
		HideDefault:  true,
		HideOrder:    true,
		Loop:         true,
		ValidateFunc: validateYesNo,
	})
	if err != nil {
		return false
	}
	return isYes(answer)
}

func validateYesNo(answer string) error {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "n", "no":
		return nil
	}
	return errors.New("answer y or n")
}

func isYes(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// confirmClear guards clear mode, which deletes events no longer listed.
func confirmClear(in io.Reader, out io.Writer, target string, yes bool) error {
	if yes {
		return nil
	}
	if !confirm(in, out, "Clear mode deletes "+target+" events that are no longer listed. Continue?") {
		return errAborted
	}
	return nil
}
