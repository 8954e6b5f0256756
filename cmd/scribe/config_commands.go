package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scribe configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(path)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				target = defaultPath
			}

			expanded, err := config.ExpandPath(target)
			if err != nil {
				return err
			}

			if overwrite {
				if err := os.Remove(expanded); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}

			if err := config.WriteSample(expanded); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", expanded)
			fmt.Fprintln(cmd.OutOrStdout(), "Set llm.api_key before starting scribed.")
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination path (default: the standard config location)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration file parses and validates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}

			cfg, resolvedPath, exists, err := config.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Configuration valid: %s\n", resolvedPath)
			} else {
				fmt.Fprintf(out, "No configuration file at %s; built-in defaults are valid.\n", resolvedPath)
			}
			fmt.Fprintf(out, "  Data dir: %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "  API bind: %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "  Model:    %s\n", cfg.LLM.Model)
			if strings.TrimSpace(cfg.LLM.APIKey) == "" {
				fmt.Fprintln(out, "  Warning: llm.api_key is empty; enrichment will fail until it is set.")
			}
			return nil
		},
	}
	return cmd
}
