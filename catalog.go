package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the landmark catalog and angle definitions",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tLANDMARK\tDESCRIPTION\tUSED BY")
	for _, l := range cat.Landmarks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", l.Ordinal, l.Name, l.Description, strings.Join(cat.Usage(l.Ordinal), ", "))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ANGLE\tPOINTS\tNORM\tDESCRIPTION")
	for _, a := range cat.Angles {
		names := make([]string, len(a.Operands))
		for i, op := range a.Operands {
			names[i] = cat.Label(op - 1)
		}
		norm := "-"
		if a.Norm != nil {
			norm = a.Norm.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, strings.Join(names, "-"), norm, a.Description)
	}
	return tw.Flush()
}
