// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Render a markdown artifact in the terminal",
	Long: `Show renders a markdown document written by labkit. Pass a file path, or
--latest with a category (experiments, analyses, papers, research) to show
the most recent document in that category.`,
	Args: cobra.MaximumNArgs(1),
	RunE: tool(runShow),
}

func init() {
	showCmd.Flags().String("latest", "", "show the newest document in a category")
	showCmd.Flags().Bool("plain", false, "print the markdown source without styling")
	showCmd.Flags().Int("width", 80, "word wrap width")

	rootCmd.AddCommand(showCmd)
}

var showCategories = map[string]store.Category{
	"experiments": store.Experiments,
	"analyses":    store.Analyses,
	"papers":      store.Papers,
	"research":    store.Research,
}

func runShow(cmd *cobra.Command, args []string) error {
	latest, _ := cmd.Flags().GetString("latest")
	plain, _ := cmd.Flags().GetBool("plain")
	width, _ := cmd.Flags().GetInt("width")

	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case latest != "":
		p, err := latestArtifact(latest)
		if err != nil {
			return err
		}
		path = p
	default:
		return fmt.Errorf("provide a file or --latest <category>")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return renderMarkdown(cmd.OutOrStdout(), string(content), plain, width)
}

func latestArtifact(name string) (string, error) {
	c, ok := showCategories[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown category %q", name)
	}
	cfg, err := labConfig()
	if err != nil {
		return "", err
	}
	path, err := newStore(cfg).Find(c, func(n string) bool {
		return strings.HasSuffix(n, ".md")
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no %s documents found", strings.ToLower(name))
	}
	return path, nil
}

func renderMarkdown(w io.Writer, md string, plain bool, width int) error {
	if plain {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
