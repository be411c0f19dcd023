package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/pkg/django"
	"github.com/yaklabco/djtree/pkg/grammar"
)

func newGrammarCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the template grammar as EBNF",
		Long: `Print the productions of the Django template parse table as EBNF.

Scanner-defined terminals are given approximate lexical productions. With
--verify, the grammar is checked for undefined and unreachable productions
instead of printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := django.Language().Table
			lexicon := django.Lexicon()
			out := cmd.OutOrStdout()

			if verify {
				if err := grammar.Verify(table, lexicon); err != nil {
					return err
				}
				fmt.Fprintf(out, "grammar ok: %d productions, %d states, start %s\n",
					len(table.Productions()), table.StateCount(), grammar.StartName(table))
				return nil
			}

			_, err := fmt.Fprint(out, grammar.Render(table, lexicon))
			return err
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "verify the grammar instead of printing it")

	return cmd
}
