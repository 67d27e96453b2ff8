package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openPrefs(cmd)
			if err != nil {
				return err
			}
			p, err := store.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("auto-validate") {
				p.AutoValidate, err = cmd.Flags().GetBool("auto-validate")
				if err != nil {
					return fmt.Errorf("failed to get auto-validate flag: %w", err)
				}
				if err := store.Save(p); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:             %s\n", store.Path())
			fmt.Fprintf(out, "auto_validate:    %t\n", p.AutoValidate)
			fmt.Fprintf(out, "last_shader_path: %s\n", p.LastPath)
			return nil
		},
	}
	cmd.Flags().Bool("auto-validate", true, "validate on every edit")
	return cmd
}
