package commands

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ivlev/treedecor/internal/analyzer"
	"github.com/ivlev/treedecor/internal/catalog"
	"github.com/ivlev/treedecor/internal/config"
	"github.com/ivlev/treedecor/internal/export"
	"github.com/ivlev/treedecor/internal/metrics"
	"github.com/ivlev/treedecor/internal/scene"
	"github.com/ivlev/treedecor/internal/script"
	"github.com/ivlev/treedecor/internal/session"
	"github.com/ivlev/treedecor/internal/system"
)

type decorateOptions struct {
	scriptPath  string
	mode        string
	caption     string
	photo       string
	night       bool
	stats       bool
	showMetrics bool
	record      string
}

func decorateCmd(version string) *cobra.Command {
	var opts decorateOptions

	cmd := &cobra.Command{
		Use:   "decorate",
		Short: "Place ornaments on the tree and export the result",
		Long: `Replays a YAML scene script (or a random fill up to the celebration
threshold) on a fresh tree, then exports it to the output directory as a
PNG still or a looping GIF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(version)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("night") {
				cfg.Night = opts.night
			}
			if cmd.Flags().Changed("stats") {
				cfg.ShowStats = opts.stats
			}
			return runDecorate(cmd.Context(), cfg, opts, cmd.OutOrStdout(), newLogger(cmd))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.scriptPath, "script", "s", "", "scene script (YAML); default is a random fill")
	f.StringVarP(&opts.mode, "mode", "m", "", "export mode: png or gif (overrides the script)")
	f.StringVar(&opts.caption, "caption", "", "caption text (overrides the script)")
	f.StringVar(&opts.photo, "photo", "", "photo file or directory to import as a custom ornament")
	f.BoolVar(&opts.night, "night", false, "render the night scene with lights")
	f.BoolVar(&opts.stats, "stats", false, "print memory usage after the export")
	f.BoolVar(&opts.showMetrics, "metrics", false, "print session and export counters")
	f.StringVar(&opts.record, "record", "", "write the final tree as a scene script to this path")
	return cmd
}

func runDecorate(ctx context.Context, cfg config.Config, opts decorateOptions, out io.Writer, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sc, err := loadScript(cfg, opts)
	if err != nil {
		return err
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		return err
	}

	aliases := map[string]string{}
	if sc.Photo != nil {
		item, err := importPhoto(sc.Photo)
		if err != nil {
			return err
		}
		if err := cat.Append(item); err != nil {
			return err
		}
		aliases[script.PhotoAlias] = item.ID
		fmt.Fprintf(out, "[*] Imported photo %q as %s\n", item.Label, item.ID)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	sessOpts := []session.Option{
		session.WithThreshold(cfg.Threshold),
		session.WithLogger(logger),
		session.WithMetrics(m),
		session.WithNotifier(func(ev session.Event) {
			switch ev.Kind {
			case session.KindCelebration:
				fmt.Fprintf(out, "[+++] Celebration! %d ornaments on the tree\n", ev.Count)
			case session.KindCombo:
				fmt.Fprintf(out, "[+++] Combo unlocked: %s\n", ev.Name)
			}
		}),
	}
	if cfg.Seed != 0 {
		sessOpts = append(sessOpts, session.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}
	sess := session.New(cat, cfg.Region, sessOpts...)

	placed, skipped, err := sc.Apply(sess, aliases)
	if err != nil {
		return err
	}
	for _, sk := range skipped {
		logger.Printf("[!] Placement %d (%s) skipped: %v", sk.Index, sk.Item, sk.Err)
	}
	fmt.Fprintf(out, "[*] Placed %d ornaments\n", len(placed))

	h := scene.NewHandle(sess, cfg.Width, cfg.Height)
	h.Night = cfg.Night || sc.Night

	r := scene.NewRasterizer(scene.WithLogger(logger), scene.WithLightSeed(cfg.LightSeed))
	pipeOpts := []export.Option{
		export.WithLogger(logger),
		export.WithMetrics(m),
		export.WithCaptionLimit(cfg.CaptionLimit),
		export.WithShareURL(cfg.ShareURL),
		export.WithWorkers(cfg.Workers),
	}
	p := export.NewPipeline(r, pipeOpts...)

	mode := sc.Mode
	if mode == "" {
		mode = script.ModeAnimated
	}

	var res *export.Result
	switch mode {
	case script.ModeStill:
		res, err = p.Still(ctx, h, sc.Caption)
	default:
		res, err = p.Animated(ctx, h, export.AnimOptions{
			Frames:   cfg.Frames,
			Delay:    cfg.FrameDelay,
			Width:    cfg.ExportWidth,
			Height:   cfg.ExportHeight,
			Sparkles: cfg.Sparkles,
			Caption:  sc.Caption,
		})
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	target := filepath.Join(cfg.OutputDir, res.Filename)
	if err := os.WriteFile(target, res.Data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	delivery := export.Decide(export.Environment{
		CanShareFiles: sc.Environment.CanShareFiles,
		SmallScreen:   sc.Environment.SmallScreen,
	})
	fmt.Fprintf(out, "[+++] Done! %s (%s, %d bytes), delivery: %s\n", target, res.MIME, len(res.Data), delivery)

	if res.MIME == "image/gif" {
		info, err := export.DecodeInfo(bytes.NewReader(res.Data))
		if err != nil {
			return fmt.Errorf("read back %s: %w", target, err)
		}
		fmt.Fprintf(out, "[*] %d frames, %dx%d, delay %d/100s\n", info.Frames, info.Width, info.Height, info.Delays[0])
	}

	if opts.record != "" {
		if err := script.WriteScript(script.FromSession(sess, mode), opts.record); err != nil {
			return fmt.Errorf("record script: %w", err)
		}
		fmt.Fprintf(out, "[*] Scene recorded to %s\n", opts.record)
	}

	if opts.showMetrics {
		if err := printMetrics(out, reg); err != nil {
			return err
		}
	}

	if cfg.ShowStats {
		report, err := system.Resources()
		if err != nil {
			logger.Printf("[!] Resource stats unavailable: %v", err)
		} else {
			fmt.Fprintf(out, "[*] %s\n", report)
		}
	}
	return nil
}

// loadScript reads the script named by opts, or builds the default one
// that fills the tree up to the celebration threshold, and applies the
// command-line overrides.
func loadScript(cfg config.Config, opts decorateOptions) (*script.Script, error) {
	sc := &script.Script{Version: "1.0", Fill: cfg.Threshold}
	if opts.scriptPath != "" {
		var err error
		sc, err = script.ReadScript(opts.scriptPath)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", opts.scriptPath, err)
		}
	}

	if opts.mode != "" {
		sc.Mode = opts.mode
	}
	if opts.caption != "" {
		sc.Caption = opts.caption
	}
	photo := opts.photo
	if photo == "" && sc.Photo == nil {
		photo = cfg.PhotoDir
	}
	if photo != "" {
		if sc.Photo == nil {
			sc.Photo = &script.Photo{}
		}
		sc.Photo.Path = photo
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func importPhoto(ph *script.Photo) (catalog.Item, error) {
	path := ph.Path
	fi, err := os.Stat(path)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("photo: %w", err)
	}
	if fi.IsDir() {
		path, err = system.FindLatestImage(path)
		if err != nil {
			return catalog.Item{}, fmt.Errorf("photo: %w", err)
		}
	}

	img, err := catalog.LoadImage(path)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("photo: %w", err)
	}
	var crop image.Rectangle
	if ph.Crop != nil {
		crop = image.Rect(ph.Crop.X, ph.Crop.Y, ph.Crop.X+ph.Crop.W, ph.Crop.Y+ph.Crop.H)
	} else {
		crop = analyzer.NewFocusDetector().FocusSquare(img)
	}
	return catalog.ImportPhoto(img, crop, path, ph.Label), nil
}

func printMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(out, "%s%s %g\n", mf.GetName(), labels, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(out, "%s_count%s %d\n", mf.GetName(), labels, m.GetHistogram().GetSampleCount())
			}
		}
	}
	return nil
}
