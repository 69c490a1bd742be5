// Command checkir type-checks on-disk IR programs against pkg/checker's
// type, uniqueness and aliasing rules.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshniemela/checkir/pkg/checker"
	"github.com/joshniemela/checkir/pkg/checkconfig"
	"github.com/joshniemela/checkir/pkg/lore/core"
	"github.com/joshniemela/checkir/pkg/lore/gpu"
	"github.com/joshniemela/checkir/pkg/prog"
	"github.com/joshniemela/checkir/pkg/render"
)

var version = "dev"

const defaultFilePermissions = 0644

var (
	flagLore         string
	flagNoUniqueness bool
	flagVerbose      bool
	flagNoColor      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "checkir",
	Short:   "checkir - type, uniqueness and aliasing checker for an array IR",
	Long:    `checkir verifies array-IR programs against a closed set of type, shape, uniqueness and aliasing rules, reporting the first violation found in each program with a breadcrumb trail back to the offending function.`,
	Version: version,
}

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check IR programs for type, uniqueness and aliasing errors",
	RunE:  runCheck,
}

var loresCmd = &cobra.Command{
	Use:   "lores",
	Short: "List available IR lores",
	RunE:  runLores,
}

var explainCmd = &cobra.Command{
	Use:   "explain <lore>",
	Short: "Explain a lore's custom operators",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .checkir.yaml configuration",
	RunE:  runInit,
}

func init() {
	checkCmd.Flags().StringVarP(&flagLore, "lore", "l", "", "IR lore to check against (core, gpu)")
	checkCmd.Flags().BoolVar(&flagNoUniqueness, "no-uniqueness", false, "disable uniqueness/aliasing checking")
	checkCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "show checked units")
	checkCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(loresCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(initCmd)
}

func lookupLore(name string) (checker.Checkable, error) {
	switch name {
	case "", "core":
		return core.New(), nil
	case "gpu":
		return gpu.New(), nil
	default:
		return nil, fmt.Errorf("unknown lore: %s", name)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := checkconfig.LoadConfigWithDefaults(root)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagLore != "" {
		cfg.Lore = flagLore
	}
	if flagNoUniqueness {
		cfg.Settings.CheckOccurrences = false
	}

	lore, err := lookupLore(cfg.Lore)
	if err != nil {
		return err
	}

	loader := prog.NewLoader(root, cfg.ShouldExclude)
	results := loader.LoadSync()

	if flagVerbose {
		fmt.Printf("Found %d units to check\n", loader.Stats().TotalFiles)
	}

	var findings []render.Finding
	for _, r := range results {
		if r.Err != nil {
			findings = append(findings, render.Finding{Path: r.Path, Err: r.Err})
			continue
		}
		var checkErr error
		if cfg.Settings.CheckOccurrences {
			checkErr = checker.CheckProg(lore, r.Program)
		} else {
			checkErr = checker.CheckProgNoUniqueness(lore, r.Program)
		}
		findings = append(findings, render.Finding{Path: r.Path, Err: checkErr})
	}

	stats := render.Stats{
		UnitsChecked: loader.Stats().LoadedFiles,
		UnitsSkipped: loader.Stats().SkippedFiles,
		Duration:     time.Since(startTime).Seconds(),
	}

	out := render.NewConsole().WithWriter(os.Stdout).WithNoColor(flagNoColor)
	if err := out.Write(findings, stats); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for _, f := range findings {
		if f.Err != nil {
			os.Exit(1)
		}
	}
	return nil
}

func runLores(cmd *cobra.Command, args []string) error {
	fmt.Println("AVAILABLE LORES")
	fmt.Println("===============")
	fmt.Println()
	fmt.Println("  core   no custom operators; plain array IR")
	fmt.Println("  gpu    adds seg_map (elementwise map) and seg_red (segmented reduce)")
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	name := args[0]
	switch name {
	case "core":
		fmt.Println("LORE: core")
		fmt.Println("CUSTOM OPERATORS: none")
	case "gpu":
		fmt.Println("LORE: gpu")
		fmt.Println("CUSTOM OPERATORS:")
		fmt.Println("  seg_map(arrs..., fun)  elementwise map across one or more arrays")
		fmt.Println("  seg_red(arr, op, neutral)  associative reduction along the outer dimension")
	default:
		return fmt.Errorf("unknown lore: %s", name)
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	const filename = ".checkir.yaml"
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("%s already exists", filename)
	}

	content := `# checkir configuration
version: 1
lore: core

settings:
  check_occurrences: true
  exclude:
    - vendor/**
    - "**/*.generated.json"
`
	if err := os.WriteFile(filename, []byte(content), defaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	fmt.Printf("Created %s\n", filename)
	return nil
}
