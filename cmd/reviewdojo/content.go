package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"reviewdojo/internal/app"
	"reviewdojo/internal/content"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List challenges and explanations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}
		printLibrary(cmd.OutOrStdout(), lib)
		return nil
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Load and validate content, exiting non-zero on the first problem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s, %s, %s to find (fingerprint %016x)\n",
			english.Plural(lib.Challenges.Len(), "challenge", ""),
			english.Plural(lib.Explanations.Len(), "explanation", ""),
			english.Plural(lib.ErrorCount(), "issue", ""),
			lib.Fingerprint)
		return nil
	},
}

var bundleCmd = &cobra.Command{
	Use:   "bundle OUT.db",
	Short: "Write the loaded content to a SQLite bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := loadLibrary(cmd)
		if err != nil {
			return err
		}
		if err := content.WriteBundle(cmd.Context(), args[0], lib, time.Now()); err != nil {
			return fmt.Errorf("write bundle: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %s)\n", args[0],
			english.Plural(lib.Challenges.Len(), "challenge", ""),
			english.Plural(lib.Explanations.Len(), "explanation", ""))
		return nil
	},
}

func loadLibrary(cmd *cobra.Command) (*content.Library, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.LoadLibrary(cmd.Context(), cfg)
}

func printLibrary(w io.Writer, lib *content.Library) {
	fmt.Fprintf(w, "Challenges (%s to find)\n", english.Plural(lib.ErrorCount(), "issue", ""))
	for _, c := range lib.Challenges.All() {
		cats := make([]string, 0, 4)
		for _, cat := range c.CategorySet() {
			cats = append(cats, string(cat))
		}
		fmt.Fprintf(w, "  #%-5d %-40s %-12s %s · %s\n", c.ID, c.Title, c.Level,
			english.Plural(len(c.Solution), "issue", ""), strings.Join(cats, ", "))
	}
	fmt.Fprintln(w, "Explanations")
	for _, e := range lib.Explanations.All() {
		fmt.Fprintf(w, "  #%-5d %-40s %-12s %s\n", e.ID, e.Title, e.Level,
			english.Plural(len(e.Steps), "step", ""))
	}
}
