package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/halo/shader"
	"github.com/gogpu/halo/uniforms"
)

func newPrologueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prologue",
		Short: "Print the WGSL prologue prepended to every shader",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), shader.Prologue)
		},
	}
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the byte layout of the uniform record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tTYPE\tOFFSET\tSIZE")
			for _, f := range uniforms.Layout {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", f.Name, f.WGSL, f.Offset, f.Size)
			}
			fmt.Fprintf(tw, "total\t\t\t%d\n", uniforms.Size)
			return tw.Flush()
		},
	}
}
