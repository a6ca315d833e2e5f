package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rogue3/dungeonforge/pkg/dungeon"
	"github.com/rogue3/dungeonforge/pkg/export"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (omit to use built-in defaults)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "json", "Export format: json, tmj, svg, or all")
	seedFlag   = flag.String("seed", "", "Override the seed from config (numeric or string, empty = use config seed)")
	timeoutMs  = flag.Int64("timeout", 0, "Generation timeout in milliseconds (0 = default 10s budget)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	preview    = flag.Bool("preview", false, "Render the generated dungeon in the terminal instead of exporting files")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("dungeonforge version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}

	validFormats := map[string]bool{"json": true, "tmj": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, tmj, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != "" {
		if *verbose {
			fmt.Printf("Overriding seed with %q\n", *seedFlag)
		}
		cfg.Seed = resolveSeedFlag(*seedFlag)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if *verbose {
		fmt.Printf("Algorithm: %s, size: %dx%d\n", cfg.Algorithm, cfg.Width, cfg.Height)
	}

	var timeout *time.Duration
	if *timeoutMs > 0 {
		d := time.Duration(*timeoutMs) * time.Millisecond
		timeout = &d
	}

	start := time.Now()
	if *verbose {
		fmt.Println("Generating dungeon...")
	}

	artifact, err := dungeon.GenerateAsync(ctx, *cfg, timeout)
	if err != nil {
		var de *dungeon.Error
		if errors.As(err, &de) {
			return fmt.Errorf("generation failed [%s]: %s", de.Code, de.Message)
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
		printStats(artifact)
	}

	if *preview {
		return previewArtifact(artifact)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	baseName := fmt.Sprintf("dungeon_%d", artifact.Seed.NumericValue)

	if *format == "json" || *format == "all" {
		if err := exportJSON(artifact, baseName); err != nil {
			return err
		}
	}
	if *format == "tmj" || *format == "all" {
		if err := exportTMJ(artifact, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(artifact, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated dungeon (seed=%d, checksum=%s) in %v\n", artifact.Seed.NumericValue, artifact.Checksum, elapsed)
	return nil
}

func loadConfig() (*dungeon.Config, error) {
	if *configPath == "" {
		cfg := dungeon.DefaultConfig()
		return &cfg, nil
	}
	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configPath)
	}
	return dungeon.LoadConfig(*configPath)
}

// resolveSeedFlag treats a flag value parseable as an unsigned integer
// that fits in 32 bits as a numeric seed, and anything else (including
// larger integers) as a string seed to be hashed.
func resolveSeedFlag(v string) any {
	if n, err := strconv.ParseUint(v, 10, 32); err == nil {
		return uint32(n)
	}
	return v
}

func exportJSON(artifact *dungeon.DungeonArtifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	if err := export.SaveJSONToFile(artifact, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportTMJ(artifact *dungeon.DungeonArtifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".tmj")
	if *verbose {
		fmt.Printf("Exporting TMJ to %s\n", filename)
	}
	if err := export.SaveArtifactToTMJFile(artifact, filename, true); err != nil {
		return fmt.Errorf("failed to export TMJ: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportSVG(artifact *dungeon.DungeonArtifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("Dungeon (seed=%d)", artifact.Seed.NumericValue)
	if err := export.SaveSVGToFile(artifact, filename, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func printStats(artifact *dungeon.DungeonArtifact) {
	fmt.Println("\nDungeon Statistics:")
	fmt.Printf("  Size: %dx%d\n", artifact.Width, artifact.Height)
	fmt.Printf("  Rooms: %d\n", len(artifact.Rooms))
	fmt.Printf("  Connections: %d\n", len(artifact.Connections))
	fmt.Printf("  Spawns: %d\n", len(artifact.Spawns))
	fmt.Printf("  Checksum: %s\n", artifact.Checksum)
}

func printHelp() {
	fmt.Printf("dungeonforge version %s\n\n", version)
	fmt.Println("A command-line tool for generating procedural dungeons.")
	fmt.Println("\nUsage:")
	fmt.Println("  dungeonforge [-config <config.yaml>] [options]")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML configuration file (omit to use built-in defaults)")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, tmj, svg, or all (default: json)")
	fmt.Println("  -seed string")
	fmt.Println("        Override the seed from config (numeric or string)")
	fmt.Println("  -timeout int")
	fmt.Println("        Generation timeout in milliseconds (0 = default 10s budget)")
	fmt.Println("  -preview")
	fmt.Println("        Render the generated dungeon in the terminal instead of exporting files")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate dungeon with default JSON export")
	fmt.Println("  dungeonforge -config dungeon.yaml")
	fmt.Println("\n  # Generate with custom seed and all export formats")
	fmt.Println("  dungeonforge -config dungeon.yaml -seed 12345 -format all -output ./out")
	fmt.Println("\n  # Preview a dungeon directly in the terminal")
	fmt.Println("  dungeonforge -config dungeon.yaml -preview")
	fmt.Println("\nConfiguration File:")
	fmt.Println("  The YAML configuration file specifies dungeon parameters including:")
	fmt.Println("  - width/height and algorithm (bsp, cellular, hybrid)")
	fmt.Println("  - seed (numeric or string, for deterministic generation)")
	fmt.Println("  - roomCount, roomSizeRange")
	fmt.Println("  - bsp/cellular/doors sub-settings")
	fmt.Println("\n  See dungeon.DefaultConfig for the full schema and defaults.")
}
