package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
	"github.com/ha1tch/fsm-canvas/pkg/fsm"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <document.json>",
		Short: "Show automaton information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			f := codec.ToFSM(doc)
			if err := f.Validate(); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			printInfo(cmd.OutOrStdout(), f)
			return nil
		},
	}
}

func printInfo(w io.Writer, f *fsm.FSM) {
	initial := f.Initial
	if initial == "" {
		initial = "(none)"
	}
	fmt.Fprintf(w, "Type:        %s\n", f.Classify())
	fmt.Fprintf(w, "States:      %d\n", len(f.States))
	fmt.Fprintf(w, "Inputs:      %d\n", len(f.Alphabet))
	fmt.Fprintf(w, "Transitions: %d\n", len(f.Transitions))
	fmt.Fprintf(w, "Initial:     %s\n", initial)
	if len(f.Accepting) > 0 {
		fmt.Fprintf(w, "Accepting:   %v\n", f.Accepting)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "States:      %v\n", f.States)
	fmt.Fprintf(w, "Alphabet:    %v\n", f.Alphabet)
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <document.json>",
		Short: "Step through an automaton interactively",
		Long:  `Reads one symbol per line and tracks every state the automaton can be in.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			runner, err := fsm.NewRunner(codec.ToFSM(doc))
			if err != nil {
				return err
			}
			return runSession(cmd.InOrStdin(), cmd.OutOrStdout(), runner)
		},
	}
}

func runSession(in io.Reader, out io.Writer, runner *fsm.Runner) error {
	fmt.Fprintln(out, "Commands: <symbol>, reset, status, history, quit")
	fmt.Fprintln(out, runner.Status())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "reset":
			runner.Reset()
			fmt.Fprintln(out, "Reset to initial state")
			fmt.Fprintln(out, runner.Status())
		case "status":
			fmt.Fprintln(out, runner.Status())
		case "history":
			printHistory(out, runner)
		default:
			if err := runner.Step(line); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(out, runner.Status())
		}
	}
}

func printHistory(w io.Writer, r *fsm.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Fprintln(w, "No history yet")
		return
	}
	fmt.Fprintln(w, "History:")
	for i, step := range history {
		fmt.Fprintf(w, "  %d: {%s} --%s--> {%s}\n",
			i+1, strings.Join(step.FromStates, ", "), step.Input, strings.Join(step.ToStates, ", "))
	}
}
