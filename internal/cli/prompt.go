package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arb8020/ireul/internal/config"
	"github.com/arb8020/ireul/internal/logger"
	"github.com/arb8020/ireul/pkg/promptbundle"
)

var (
	promptAddExclude    []string
	promptPersonaAdd    []string
	promptPersonaArch   bool
	promptPersonaEng    bool
	promptExportOutput  string
	promptExportStdout  bool
	promptExportPatch   bool
	promptExportPatchTy string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Create and manage prompt bundles for LLMs",
}

func init() {
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new prompt bundle",
		Args:  cobra.ExactArgs(1),
		RunE:  runPromptCreate,
	}

	switchCmd := &cobra.Command{
		Use:   "switch <name>",
		Short: "Switch to a different prompt bundle",
		Args:  cobra.ExactArgs(1),
		RunE:  runPromptSwitch,
	}

	addCmd := &cobra.Command{
		Use:   "add <files...>",
		Short: "Add files to the current prompt bundle",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPromptAdd,
	}
	addCmd.Flags().StringSliceVar(&promptAddExclude, "exclude", nil, "patterns to exclude")

	removeCmd := &cobra.Command{
		Use:   "remove <files...>",
		Short: "Remove files from the current prompt bundle",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPromptRemove,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show current prompt bundle status",
		RunE:  runPromptStatus,
	}

	instructCmd := &cobra.Command{
		Use:   "instruct <instruction>",
		Short: "Set the instruction on the current prompt bundle",
		Args:  cobra.ExactArgs(1),
		RunE:  runPromptInstruct,
	}

	personaCmd := &cobra.Command{
		Use:   "persona",
		Short: "Add personas to the current prompt bundle",
		RunE:  runPromptPersona,
	}
	personaCmd.Flags().BoolVar(&promptPersonaArch, "architect", false, "add architect persona")
	personaCmd.Flags().BoolVar(&promptPersonaEng, "engineer", false, "add engineer persona")
	personaCmd.Flags().StringSliceVar(&promptPersonaAdd, "add", nil, "add specific personas by name")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current prompt bundle as XML",
		RunE:  runPromptExport,
	}
	exportCmd.Flags().StringVarP(&promptExportOutput, "output", "o", "", "output file (defaults to <name>.txt)")
	exportCmd.Flags().BoolVar(&promptExportStdout, "stdout", false, "print to stdout instead of a file")
	exportCmd.Flags().BoolVar(&promptExportPatch, "patch", false, "include instructions for generating code patches")
	exportCmd.Flags().StringVar(&promptExportPatchTy, "patch-type", promptbundle.FormatXML, "patch format type")

	promptCmd.AddCommand(createCmd, switchCmd, addCmd, removeCmd, statusCmd, instructCmd, personaCmd, exportCmd)
	rootCmd.AddCommand(promptCmd)
}

func newBundleStore() (*promptbundle.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	return promptbundle.NewStore(promptbundle.Dirs{User: cfg.DataDir}, log)
}

func runPromptCreate(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name := args[0]

	if store.Exists(name) {
		fmt.Printf("Prompt '%s' already exists.\n", name)
		fmt.Printf("Do you want to switch to '%s'? (y/n): ", name)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == "y" || answer == "yes" {
			return runPromptSwitch(cmd, args)
		}
		return fmt.Errorf("prompt '%s' already exists", name)
	}

	if err := store.Save(name, promptbundle.NewBundle()); err != nil {
		return err
	}
	if err := store.SetCurrent(name); err != nil {
		return err
	}
	fmt.Printf("Created and switched to prompt: %s\n", name)
	return nil
}

func runPromptSwitch(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name := args[0]

	if !store.Exists(name) {
		fmt.Printf("Prompt '%s' does not exist.\n", name)
		if bundles, err := store.List(); err == nil && len(bundles) > 0 {
			fmt.Println("\nAvailable prompts:")
			for _, b := range bundles {
				fmt.Printf("  %s\n", b)
			}
		}
		return fmt.Errorf("prompt '%s' does not exist", name)
	}

	if err := store.SetCurrent(name); err != nil {
		return err
	}
	fmt.Printf("Switched to prompt: %s\n", name)
	return nil
}

func runPromptAdd(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name, bundle, err := store.Current()
	if err != nil {
		return err
	}

	updated, added, warnings := promptbundle.AddFiles(bundle, args, promptAddExclude)
	for _, warning := range warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	if err := store.Save(name, updated); err != nil {
		return err
	}
	fmt.Printf("Added %d files to prompt '%s'.\n", len(added), name)
	fmt.Printf("Total files in prompt: %d\n", len(updated.Files))
	return nil
}

func runPromptRemove(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name, bundle, err := store.Current()
	if err != nil {
		return err
	}

	updated, removed := promptbundle.RemoveFiles(bundle, args)
	if err := store.Save(name, updated); err != nil {
		return err
	}
	fmt.Printf("Removed %d files from prompt '%s'.\n", removed, name)
	fmt.Printf("Files remaining in prompt: %d\n", len(updated.Files))
	return nil
}

func runPromptStatus(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	status, err := store.Status()
	if err != nil {
		return err
	}

	fmt.Printf("On prompt \033[1;32m%s\033[0m\n\n", status.Name)

	if len(status.Available) > 0 {
		fmt.Println("Available prompts:")
		for _, p := range status.Available {
			if p == status.Name {
				fmt.Printf("* \033[1;32m%s\033[0m\n", p)
			} else {
				fmt.Printf("  %s\n", p)
			}
		}
		fmt.Println()
	}

	fmt.Printf("Files: %d files added\n", len(status.Bundle.Files))

	if status.Bundle.Instruction != "" {
		fmt.Printf("Instruction: %q\n", status.Bundle.Instruction)
	} else {
		fmt.Println("Instruction: None")
	}

	if len(status.Bundle.Personas) > 0 {
		fmt.Printf("Personas: %s\n", strings.Join(status.Bundle.Personas, ", "))
	} else {
		fmt.Println("Personas: None")
	}

	fmt.Printf("Format: %s\n", status.Bundle.Format)
	fmt.Printf("Total estimated tokens: \033[1;33m%d\033[0m\n", status.TotalTokens)

	if status.Warn {
		fmt.Println("\033[1;31mWarning: Token count exceeds typical effective model context window (32K)\033[0m")
	}

	if len(status.Bundle.Files) > 0 {
		fmt.Println("\nFiles added:")
		sorted := append([]string{}, status.Bundle.Files...)
		sort.Strings(sorted)
		for _, path := range sorted {
			fmt.Printf("  \033[1;36m%s\033[0m (%d tokens)\n", path, status.FileTokens[path])
		}
	}

	fmt.Println("\nReady to export with 'ireul prompt export'")
	return nil
}

func runPromptInstruct(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name, bundle, err := store.Current()
	if err != nil {
		return err
	}

	updated := promptbundle.SetInstruction(bundle, args[0])
	if err := store.Save(name, updated); err != nil {
		return err
	}
	fmt.Printf("Added instruction to prompt '%s':\n", name)
	fmt.Printf("  %q\n", updated.Instruction)
	return nil
}

func runPromptPersona(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name, bundle, err := store.Current()
	if err != nil {
		return err
	}

	if !promptPersonaArch && !promptPersonaEng && len(promptPersonaAdd) == 0 {
		available := store.ListPersonas()
		fmt.Printf("Current prompt: %s\n", name)
		if len(bundle.Personas) > 0 {
			fmt.Printf("Active personas: %s\n", strings.Join(bundle.Personas, ", "))
		} else {
			fmt.Println("Active personas: None")
		}
		fmt.Println("\nAvailable personas:")
		active := make(map[string]bool, len(bundle.Personas))
		for _, p := range bundle.Personas {
			active[p] = true
		}
		for _, p := range available {
			if active[p] {
				fmt.Printf("* %s\n", p)
			} else {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	}

	updated := bundle
	if promptPersonaArch {
		updated = promptbundle.AddPersona(updated, "architect")
	}
	if promptPersonaEng {
		updated = promptbundle.AddPersona(updated, "engineer")
	}
	known := make(map[string]bool)
	for _, p := range store.ListPersonas() {
		known[p] = true
	}
	for _, p := range promptPersonaAdd {
		if known[p] {
			updated = promptbundle.AddPersona(updated, p)
		} else {
			fmt.Printf("Warning: Persona '%s' not found.\n", p)
		}
	}

	if err := store.Save(name, updated); err != nil {
		return err
	}
	fmt.Printf("Added personas to prompt '%s': %s\n", name, strings.Join(updated.Personas, ", "))
	return nil
}

func runPromptExport(cmd *cobra.Command, args []string) error {
	store, err := newBundleStore()
	if err != nil {
		return err
	}
	name, bundle, err := store.Current()
	if err != nil {
		return err
	}

	if len(bundle.Files) == 0 {
		fmt.Println("Warning: No files in prompt.")
	}

	patchType := ""
	if promptExportPatch {
		patchType = promptExportPatchTy
	}

	document, outputPath, err := store.Export(name, bundle, patchType, promptExportOutput, promptExportStdout)
	if err != nil {
		return err
	}

	if promptExportStdout {
		fmt.Print(document)
		return nil
	}
	fmt.Printf("Exported prompt to %s\n", outputPath)
	return nil
}
