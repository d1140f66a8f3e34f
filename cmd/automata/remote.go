package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid automaton id %q", s)
	}
	return id, nil
}

func writeDocument(cmd *cobra.Command, doc codec.Document) error {
	data, err := codec.ToJSON(doc, true)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// newRemoteCmds builds the commands that call the backend.
func newRemoteCmds(a *app) []*cobra.Command {
	create := &cobra.Command{
		Use:   "create <document.json>",
		Short: "Store a document on the backend and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			id, err := a.client().Create(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored automaton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := a.client().Read(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeDocument(cmd, doc)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored automata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.client().List(cmd.Context())
			if err != nil {
				return err
			}
			ids := make([]int, 0, len(all))
			for id := range all {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				doc := all[id]
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d states\t%d transitions\n",
					id, len(doc.States), len(doc.Transitions))
			}
			return nil
		},
	}

	recognize := &cobra.Command{
		Use:   "recognize <id> <input>",
		Short: "Check whether an automaton accepts a string",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := a.client().Recognize(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%q accepted\n", args[1])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%q rejected\n", args[1])
			}
			return nil
		},
	}

	convert := &cobra.Command{
		Use:   "convert <id>",
		Short: "Convert an automaton to a DFA and print the new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			dfa, err := a.client().Convert(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dfa)
			return nil
		},
	}

	minimize := &cobra.Command{
		Use:   "minimize <id>",
		Short: "Print the minimal DFA of a deterministic automaton",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := a.client().Minimize(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeDocument(cmd, doc)
		},
	}

	typ := &cobra.Command{
		Use:   "type <id>",
		Short: "Print DFA or NFA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.client().Type(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}

	equiv := &cobra.Command{
		Use:   "equiv <id> <other>",
		Short: "Check whether two automata accept the same language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseID(args[0])
			if err != nil {
				return err
			}
			y, err := parseID(args[1])
			if err != nil {
				return err
			}
			eq, err := a.client().Equivalent(cmd.Context(), x, y)
			if err != nil {
				return err
			}
			if eq {
				fmt.Fprintln(cmd.OutOrStdout(), "equivalent")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not equivalent")
			}
			return nil
		},
	}

	return []*cobra.Command{create, get, list, recognize, convert, minimize, typ, equiv}
}
