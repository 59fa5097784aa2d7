package cli

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	pc "github.com/setanarut/prettycolors"
)

// runConfig is the TOML form of the generate flags. Relative template paths
// are resolved against the config file's directory.
//
//	width = 256
//	height = 256
//	order = "shuffle"
//	seed = 1234
//	starts = [[0, 0], [255, 255]]
//	center = true
//	templates = ["ring.pgm"]
//	palette = ["#000000", "#ff8800"]
//
//	[[rect]]
//	row = 0
//	col = 0
//	rows = 64
//	cols = 64
type runConfig struct {
	Width     int          `toml:"width"`
	Height    int          `toml:"height"`
	Step      int          `toml:"step"`
	Order     string       `toml:"order"`
	Seed      *uint64      `toml:"seed"`
	Starts    [][]int      `toml:"starts"`
	Center    bool         `toml:"center"`
	Rects     []rectConfig `toml:"rect"`
	Templates []string     `toml:"templates"`
	Palette   []string     `toml:"palette"`
	Format    string       `toml:"format"`
	Output    string       `toml:"output"`
	Budget    int64        `toml:"budget"`
}

type rectConfig struct {
	Row  int `toml:"row"`
	Col  int `toml:"col"`
	Rows int `toml:"rows"`
	Cols int `toml:"cols"`
}

// loadConfig decodes path and warns about keys it does not know.
func loadConfig(path string, logger *log.Logger) (*runConfig, error) {
	var cfg runConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, pc.Wrapf(pc.ErrCodeConfig, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ","))
	}
	dir := filepath.Dir(path)
	for i, t := range cfg.Templates {
		if !filepath.IsAbs(t) {
			cfg.Templates[i] = filepath.Join(dir, t)
		}
	}
	return &cfg, nil
}

// apply copies config values into opts for every flag the user did not set
// on the command line.
func (cfg *runConfig) apply(opts *generateOpts, flags *pflag.FlagSet) error {
	unset := func(name string) bool { return !flags.Changed(name) }

	if cfg.Width != 0 && unset("width") {
		opts.width = cfg.Width
	}
	if cfg.Height != 0 && unset("height") {
		opts.height = cfg.Height
	}
	if cfg.Step != 0 && unset("step") {
		opts.step = cfg.Step
	}
	if cfg.Order != "" && unset("order") && unset("no-shuffle") {
		opts.order = cfg.Order
	}
	if cfg.Seed != nil && unset("seed") {
		opts.seed = *cfg.Seed
		opts.seedSet = true
	}
	if len(cfg.Starts) > 0 && unset("start") {
		opts.starts = opts.starts[:0]
		for _, s := range cfg.Starts {
			if len(s) != 2 {
				return pc.Errorf(pc.ErrCodeConfig, "start %v must be [row, col]", s)
			}
			opts.starts = append(opts.starts, pc.Position{Row: s[0], Col: s[1]})
		}
	}
	if cfg.Center && unset("center") {
		opts.center = true
	}
	for _, r := range cfg.Rects {
		opts.rects = append(opts.rects, pc.RectMask{Row: r.Row, Col: r.Col, Rows: r.Rows, Cols: r.Cols})
	}
	if len(cfg.Templates) > 0 && unset("template") {
		opts.templates = cfg.Templates
	}
	if len(cfg.Palette) > 0 {
		opts.palette = opts.palette[:0]
		for _, hex := range cfg.Palette {
			c, err := pc.ParseHex(hex)
			if err != nil {
				return err
			}
			opts.palette = append(opts.palette, c)
		}
	}
	if cfg.Format != "" && unset("format") {
		opts.format = cfg.Format
	}
	if cfg.Output != "" && unset("output") {
		opts.output = cfg.Output
	}
	if cfg.Budget != 0 && unset("budget") {
		opts.budget = cfg.Budget
	}
	return nil
}
