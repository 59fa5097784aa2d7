package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pc "github.com/setanarut/prettycolors"
	"github.com/setanarut/prettycolors/utils"
)

type inspectOpts struct {
	k      int    // number of colors to report
	method string // dominantcolor or kmeans
	swatch string // optional PNG strip
	table  bool   // render a styled table instead of tab-separated lines
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// inspectCommand reports the dominant colors of an image, typically one
// produced by generate.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{k: 7, method: utils.PaletteMethodDominantColor.String()}

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Print the dominant colors of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.k <= 0 {
				return pc.Errorf(pc.ErrCodeConfig, "-k must be positive, not %d", opts.k)
			}
			method, err := utils.ParsePaletteMethod(opts.method)
			if err != nil {
				return err
			}
			img, err := utils.ReadImage(args[0])
			if err != nil {
				return pc.Wrapf(pc.ErrCodeConfig, err, "read %s", args[0])
			}

			prog := newProgress(c.Logger)
			swatches := utils.ExtractPalette(img, opts.k, method)
			prog.done("extracted palette", "method", method, "colors", len(swatches))

			out := cmd.OutOrStdout()
			if opts.table {
				renderSwatchTable(out, swatches)
			} else {
				for _, s := range swatches {
					fmt.Fprintf(out, "%s\t%.4f\n", s.Color.Hex(), s.Weight)
				}
			}
			if opts.swatch != "" {
				if err := utils.SaveSwatches(swatches, swatchTile, opts.swatch); err != nil {
					return pc.Wrapf(pc.ErrCodeOutput, err, "write swatch")
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.k, "colors", "k", opts.k, "number of colors")
	cmd.Flags().StringVar(&opts.method, "method", opts.method, "extraction method: dominantcolor, kmeans")
	cmd.Flags().StringVar(&opts.swatch, "swatch", "", "write the colors as a PNG strip")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print a table with a color sample per row")
	return cmd
}

// renderSwatchTable writes one row per swatch; the first column is painted
// with the swatch color.
func renderSwatchTable(w io.Writer, swatches []utils.Swatch) {
	rows := make([][]string, len(swatches))
	for i, s := range swatches {
		rows[i] = []string{"      ", s.Color.Hex(), fmt.Sprintf("%.1f%%", 100*s.Weight)}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("", "Color", "Weight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 && row < len(swatches) {
				return lipgloss.NewStyle().Background(lipgloss.Color(swatches[row].Color.Hex()))
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.String())
}
