package cli

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var pipelinesCmd = &cobra.Command{
	Use:   "pipelines",
	Short: "List reconciliation pipelines",
	Long: `Lists the available pipelines. A pipeline pairs a reference table
layout with the grammar used to read one kind of grant letter.`,
	Args: cobra.NoArgs,
	RunE: runPipelinesList,
}

var pipelinesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a pipeline's grammar",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipelinesShow,
}

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Manage document grammars",
}

var grammarInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in grammars to the grammar directory",
	Long: `Writes every built-in grammar that is not already present to the
grammar directory so it can be edited. Existing files are left alone.
Dropping a new <id>.toml file into the directory adds a pipeline.`,
	Args: cobra.NoArgs,
	RunE: runGrammarInit,
}

func init() {
	pipelinesCmd.AddCommand(pipelinesShowCmd)
	grammarCmd.AddCommand(grammarInitCmd)
	rootCmd.AddCommand(pipelinesCmd)
	rootCmd.AddCommand(grammarCmd)
}

func runPipelinesList(cmd *cobra.Command, _ []string) error {
	if err := requireService("pipeline service", pipelineService != nil); err != nil {
		return err
	}

	pipelines, err := pipelineService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing pipelines: %w", err)
	}
	if len(pipelines) == 0 {
		cmd.Println("No pipelines found.")
		return nil
	}

	cmd.Printf("%-12s %-16s %-4s %s\n", "ID", "CATEGORY", "LANG", "TITLE")
	for _, p := range pipelines {
		cmd.Printf("%-12s %-16s %-4s %s\n", p.ID, p.Category, p.Language, p.Title)
	}
	return nil
}

func runPipelinesShow(cmd *cobra.Command, args []string) error {
	if err := requireService("pipeline service", pipelineService != nil); err != nil {
		return err
	}

	p, err := pipelineService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("pipeline %q: %w", args[0], err)
	}
	def, err := pipelineService.Definition(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("pipeline %q: %w", args[0], err)
	}

	cmd.Printf("%s: %s\n", p.ID, p.Title)
	cmd.Printf("Reference columns: %s\n", strings.Join(p.Schema.Columns(), ", "))
	cmd.Println()

	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal grammar: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runGrammarInit(cmd *cobra.Command, _ []string) error {
	if err := requireService("pipeline service", pipelineService != nil); err != nil {
		return err
	}

	written, err := pipelineService.InitGrammars(cmd.Context())
	if err != nil {
		return fmt.Errorf("writing grammars: %w", err)
	}
	if len(written) == 0 {
		cmd.Println("All grammars already present.")
		return nil
	}
	for _, path := range written {
		cmd.Printf("Wrote %s\n", path)
	}
	return nil
}
