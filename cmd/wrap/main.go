package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"alphawrap"
	"alphawrap/internal/config"
	"alphawrap/internal/pipeline"
	"alphawrap/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD27F"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	input := flag.String("in", "", "Input buffer dump (JSON)")
	output := flag.String("out", "", "Output buffer dump (default: <in>.wrapped.json)")
	alpha := flag.Float64("alpha", 0, "Alpha: smallest feature size kept (default: 1.0)")
	offset := flag.Float64("offset", 0, "Offset: distance of the wrap from the input (default: 0.1)")
	preview := flag.String("preview", "", "Write a WebP preview of the wrapped mesh")
	size := flag.Int("size", 0, "Preview size in pixels (default: 256)")
	reportPath := flag.String("report", "", "Write a JSON run report")
	verbose := flag.Bool("verbose", false, "Debug logging")
	yaw := flag.Float64("yaw", 0, "Preview yaw in degrees (default: 35)")
	pitch := flag.Float64("pitch", 0, "Preview pitch in degrees (default: 25)")
	perspective := flag.Bool("perspective", false, "Perspective preview instead of orthographic")
	fov := flag.Float64("fov", 0, "Perspective field of view in degrees (default: 30)")

	flag.Parse()

	// Angles of 0 are valid, so only flags actually given override.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	flags := config.Flags{
		Input:   *input,
		Output:  *output,
		Preview: *preview,
		Report:  *reportPath,
		Alpha:   *alpha,
		Offset:  *offset,
		Size:    *size,
		Verbose: *verbose,

		Perspective: *perspective,
		FOV:         *fov,
	}
	if set["yaw"] {
		flags.Yaw = yaw
	}
	if set["pitch"] {
		flags.Pitch = pitch
	}
	cfg.Resolve(flags)

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "Error: no input. Use -in or config.json.")
		os.Exit(2)
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	alphawrap.SetLogger(log)

	fmt.Println(titleStyle.Render("alpha wrap"))
	fmt.Printf("%s %s\n", labelStyle.Render("Input: "), cfg.Input)
	fmt.Printf("%s alpha=%g offset=%g\n", labelStyle.Render("Params:"), cfg.Alpha, cfg.Offset)
	fmt.Println("------------------------------------------------------------")

	rep, err := pipeline.Run(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}

	printSummary(cfg, rep)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zc.Build()
}

func printSummary(cfg config.Config, rep report.Report) {
	fmt.Printf("%s %d vertices, %d triangles\n", labelStyle.Render("Before:"), rep.Before.Vertices, rep.Before.Triangles)
	fmt.Printf("%s %d vertices, %d triangles\n", labelStyle.Render("After: "), rep.After.Vertices, rep.After.Triangles)

	topo := rep.Topology
	if topo.Closed {
		fmt.Printf("%s %s (%d edges)\n", labelStyle.Render("Shape: "), okStyle.Render("closed"), topo.Edges)
	} else {
		fmt.Printf("%s %s (%d boundary, %d non-manifold edges)\n", labelStyle.Render("Shape: "),
			warnStyle.Render("open"), topo.Boundary, topo.NonManifold)
	}

	if len(rep.Dropped) > 0 {
		fmt.Printf("\n%s\n", warnStyle.Render(fmt.Sprintf("Dropped faces (%d):", len(rep.Dropped))))
		limit := min(len(rep.Dropped), 20)
		for _, d := range rep.Dropped[:limit] {
			fmt.Printf("  face %d: %d vertices\n", d.Face, d.Cardinality)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fms\n", rep.ElapsedMS)
	fmt.Printf("Output: %s\n", cfg.Output)
	if cfg.Preview != "" {
		fmt.Printf("Preview: %s\n", cfg.Preview)
	}
	if cfg.ReportPath != "" {
		fmt.Printf("Report: %s\n", cfg.ReportPath)
	}
}
