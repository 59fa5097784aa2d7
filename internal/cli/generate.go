package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pc "github.com/setanarut/prettycolors"
	"github.com/setanarut/prettycolors/utils"
)

const (
	swatchColors     = 8   // colors in the --swatch strip
	swatchTile       = 64  // swatch tile edge in pixels
	scorePlotBins    = 48
	stdoutOutputName = "-"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	config    string        // TOML run configuration
	width     int           // grid width in cells
	height    int           // grid height in cells
	step      int           // channel step; 0 derives it from the cell count
	order     string        // palette order: shuffle, natural, brightness
	noShuffle bool          // shorthand for --order natural
	seed      uint64        // random seed
	seedSet   bool          // seed came from a flag or the config
	starts    []pc.Position // initial frontier cells
	center    bool          // add the middle-third level first
	rects     []pc.RectMask // rectangle levels (config only)
	templates []string      // template mask files, one level each
	palette   []pc.Color    // explicit palette (config only)
	format    string        // ppm, ppm-raw, png
	output    string        // output path, "-" or empty for stdout
	swatch    string        // dominant-color swatch PNG path
	scorePlot string        // score histogram PNG path
	budget    int64         // memory budget in bytes
}

// newGenerateOpts returns the flag defaults.
func newGenerateOpts() generateOpts {
	d := pc.DefaultOptions()
	return generateOpts{
		width:  d.Width,
		height: d.Height,
		order:  d.Order.String(),
		format: string(utils.FormatPPM),
		budget: d.MemoryBudget,
	}
}

// generateCommand creates the generate command.
//
// Levels run in this order: --center, [[rect]] entries from the config,
// then every --template in the order given, then the full grid.
func (c *CLI) generateCommand() *cobra.Command {
	opts := newGenerateOpts()
	var starts []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an image that uses every sampled color once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range starts {
				p, err := parsePosition(s)
				if err != nil {
					return err
				}
				opts.starts = append(opts.starts, p)
			}
			opts.seedSet = cmd.Flags().Changed("seed")
			if opts.config != "" {
				cfg, err := loadConfig(opts.config, c.Logger)
				if err != nil {
					return err
				}
				if err := cfg.apply(&opts, cmd.Flags()); err != nil {
					return err
				}
			}
			if opts.noShuffle {
				opts.order = pc.OrderNatural.String()
			}
			return c.runGenerate(&opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.config, "config", "", "TOML run configuration (flags override it)")
	f.IntVarP(&opts.width, "width", "W", opts.width, "grid width")
	f.IntVarP(&opts.height, "height", "H", opts.height, "grid height")
	f.IntVar(&opts.step, "step", 0, "channel step in [1,256] (default: derived from the grid size)")
	f.StringVar(&opts.order, "order", opts.order, "palette order: shuffle, natural, brightness")
	f.BoolVar(&opts.noShuffle, "no-shuffle", false, "keep cube order (same as --order natural)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed (default: current time)")
	f.StringArrayVar(&starts, "start", nil, "initial frontier cell as row,col (repeatable; default: center)")
	f.BoolVar(&opts.center, "center", false, "fill the middle third of the grid before anything else")
	f.StringArrayVar(&opts.templates, "template", nil, "single-channel mask file restricting one level (repeatable, in order)")
	f.StringVar(&opts.format, "format", opts.format, "output format: ppm, ppm-raw, png")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	f.StringVar(&opts.swatch, "swatch", "", "write a PNG strip of the result's dominant colors")
	f.StringVar(&opts.scorePlot, "score-plot", "", "write a PNG histogram of neighbor distances")
	f.Int64Var(&opts.budget, "budget", opts.budget, "memory budget in bytes for grid, palette and masks")

	return cmd
}

// options turns parsed flags into engine options, loading template masks.
func (o *generateOpts) options() (pc.Options, error) {
	opt := pc.OptionsFromSize(o.width, o.height)
	if err := opt.Validate(); err != nil {
		return opt, err
	}
	order, err := pc.ParseOrder(o.order)
	if err != nil {
		return opt, err
	}
	opt.Order = order
	if o.step != 0 {
		opt.Step = o.step
	}
	opt.Palette = o.palette
	opt.Seed = o.seed
	if !o.seedSet {
		opt.Seed = uint64(time.Now().UnixNano())
	}
	opt.Starts = o.starts
	opt.MemoryBudget = o.budget

	if o.center {
		opt.Masks = append(opt.Masks, pc.CenterMask{})
	}
	for _, r := range o.rects {
		opt.Masks = append(opt.Masks, r)
	}
	for _, path := range o.templates {
		m, err := utils.ReadMask(path, o.width, o.height)
		if err != nil {
			return opt, err
		}
		opt.Masks = append(opt.Masks, m)
	}
	return opt, opt.Validate()
}

func (c *CLI) runGenerate(o *generateOpts, stdout io.Writer) error {
	format, err := utils.ParseFormat(o.format)
	if err != nil {
		return err
	}
	opt, err := o.options()
	if err != nil {
		return err
	}

	c.Logger.Info("seed", "seed", opt.Seed)
	prog := newProgress(c.Logger)
	engine, err := pc.NewEngine(opt, c.Logger)
	if err != nil {
		return err
	}
	if err := engine.Run(); err != nil {
		return err
	}
	prog.done("generated", "placed", engine.Grid.TouchedCount())
	for _, st := range engine.Stats {
		sum := st.Summary()
		c.Logger.Debug("level summary",
			"level", st.Name,
			"placed", sum.Placed,
			"isolated", sum.Isolated,
			"mean", sum.Mean,
			"stddev", sum.StdDev,
			"worst", sum.Worst)
	}

	// Sidecars go first so a failed write never follows an emitted image.
	if o.swatch != "" {
		sw := utils.ExtractPalette(engine.Grid.Image(), swatchColors, utils.PaletteMethodDominantColor)
		if err := utils.SaveSwatches(sw, swatchTile, o.swatch); err != nil {
			return pc.Wrapf(pc.ErrCodeOutput, err, "write swatch")
		}
	}
	if o.scorePlot != "" {
		title := fmt.Sprintf("%dx%d, seed %d", opt.Width, opt.Height, opt.Seed)
		if err := utils.SaveScoreHistogram(pc.AllScores(engine.Stats), scorePlotBins, title, o.scorePlot); err != nil {
			return pc.Wrapf(pc.ErrCodeOutput, err, "write score plot")
		}
	}

	if o.output == "" || o.output == stdoutOutputName {
		var buf bytes.Buffer
		if err := utils.WriteImage(&buf, engine.Grid, format, opt.Seed); err != nil {
			return err
		}
		if _, err := buf.WriteTo(stdout); err != nil {
			return pc.Wrapf(pc.ErrCodeOutput, err, "write image")
		}
	} else {
		if err := utils.SaveGrid(engine.Grid, format, opt.Seed, o.output); err != nil {
			return err
		}
		c.Logger.Info("wrote image", "file", o.output, "format", format)
	}
	return nil
}

// parsePosition parses "row,col".
func parsePosition(s string) (pc.Position, error) {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return pc.Position{}, pc.Errorf(pc.ErrCodeConfig, "invalid start %q (want row,col)", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return pc.Position{}, pc.Wrapf(pc.ErrCodeConfig, err, "invalid start row %q", rs)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return pc.Position{}, pc.Wrapf(pc.ErrCodeConfig, err, "invalid start column %q", cs)
	}
	return pc.Position{Row: r, Col: col}, nil
}
