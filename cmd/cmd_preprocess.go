// cmd_preprocess.go - Lokales Preprocessing von Bilddateien
// Hauptfunktionen: PreprocessHandler, StatsHandler
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ollama/imagenorm/envconfig"
	"github.com/ollama/imagenorm/vision"
)

// loadSources - Laedt alle Bilder und erzeugt SourceImages mit dem Kernel aus --interpolation
func loadSources(cmd *cobra.Command, paths []string) ([]vision.SourceImage, []*vision.ImageInput, error) {
	name, _ := cmd.Flags().GetString("interpolation")
	interpolation, err := vision.ParseInterpolation(name)
	if err != nil {
		return nil, nil, err
	}

	srcs := make([]vision.SourceImage, len(paths))
	imgs := make([]*vision.ImageInput, len(paths))
	for i, path := range paths {
		img, err := vision.LoadImage(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		imgs[i] = img
		srcs[i] = img.Source(vision.WithInterpolation(interpolation))
	}

	return srcs, imgs, nil
}

// targetSize - Liest --width und --height
func targetSize(cmd *cobra.Command) (int, int) {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	return width, height
}

// PreprocessHandler - Normalisiert Bilder und gibt Kanal-Statistiken aus
func PreprocessHandler(cmd *cobra.Command, args []string) error {
	preset, _ := cmd.Flags().GetString("preset")
	orderFlag, _ := cmd.Flags().GetString("order")
	dtypeFlag, _ := cmd.Flags().GetString("dtype")
	output, _ := cmd.Flags().GetString("output")

	order, err := vision.ParseOutputOrder(orderFlag)
	if err != nil {
		return err
	}

	dtype, err := vision.ParseDType(dtypeFlag)
	if err != nil {
		return err
	}

	n, err := vision.NewNormalizer(vision.WithPreset(preset), vision.WithOutputOrder(order))
	if err != nil {
		return err
	}

	srcs, imgs, err := loadSources(cmd, args)
	if err != nil {
		return err
	}

	width, height := targetSize(cmd)
	tensors, err := n.PreprocessBatch(cmd.Context(), srcs, width, height, int(envconfig.NumParallel()))
	if err != nil {
		return err
	}

	var data [][]string
	for i, t := range tensors {
		for c, s := range vision.ChannelStats(t) {
			data = append(data, []string{
				args[i],
				imgs[i].Format.String(),
				fmt.Sprintf("%dx%d", imgs[i].Width, imgs[i].Height),
				string(t.Order[c]),
				formatFloat(s.Mean),
				formatFloat(s.StdDev),
				formatFloat(s.Min),
				formatFloat(s.Max),
			})
		}
	}

	renderTable(cmd.OutOrStdout(), []string{"IMAGE", "FORMAT", "SIZE", "CHANNEL", "MEAN", "STD", "MIN", "MAX"}, data)

	if output == "" {
		return nil
	}

	stacked, err := vision.Stack(tensors)
	if err != nil {
		return err
	}

	if err := writeTensors(output, tensors, dtype); err != nil {
		return err
	}

	cmd.Printf("wrote %s tensor %v to %s\n", dtype, stacked.Shape(), output)
	return nil
}

// writeTensors - Schreibt die Tensoren hintereinander als [N,3,H,W] Rohdaten
func writeTensors(path string, tensors []*vision.Tensor, dtype vision.DType) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, t := range tensors {
		if err := t.Encode(w, dtype); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// StatsHandler - Schaetzt mean/std je Kanal ueber alle angegebenen Bilder
func StatsHandler(cmd *cobra.Command, args []string) error {
	n, err := vision.NewNormalizer(vision.WithPreset(vision.PresetNone), vision.WithOutputOrder(vision.OrderRGB))
	if err != nil {
		return err
	}

	srcs, _, err := loadSources(cmd, args)
	if err != nil {
		return err
	}

	width, height := targetSize(cmd)
	tensors, err := n.PreprocessBatch(cmd.Context(), srcs, width, height, int(envconfig.NumParallel()))
	if err != nil {
		return err
	}

	p, err := vision.EstimateParams(tensors...)
	if err != nil {
		return err
	}

	var data [][]string
	for c, name := range vision.OrderRGB {
		data = append(data, []string{string(name), formatFloat(p.Mean[c]), formatFloat(p.Std[c])})
	}

	renderTable(cmd.OutOrStdout(), []string{"CHANNEL", "MEAN", "STD"}, data)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

// addSizeFlags - Gemeinsame Flags fuer preprocess und stats
func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("width", int(envconfig.Width()), "Target width")
	cmd.Flags().Int("height", int(envconfig.Height()), "Target height")
	cmd.Flags().String("interpolation", envconfig.Interpolation(), "Resize kernel (nearest, approx-bilinear, bilinear, catmull-rom)")
}

// newPreprocessCmd - Erstellt den preprocess Command
func newPreprocessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess IMAGE [IMAGE...]",
		Short: "Resize and normalize images into a planar tensor",
		Args:  cobra.MinimumNArgs(1),
		RunE:  PreprocessHandler,
	}

	addSizeFlags(cmd)
	cmd.Flags().String("preset", envconfig.Preset(), "Normalization preset (imagenet, standard, clip, none)")
	cmd.Flags().String("order", "native", "Channel order of the tensor planes (native, rgb, bgr)")
	cmd.Flags().String("dtype", "f32", "Data type of --output (f64, f32, f16, bf16)")
	cmd.Flags().StringP("output", "o", "", "Write the raw little-endian [N,3,H,W] tensor to a file")
	return cmd
}

// newStatsCmd - Erstellt den stats Command
func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats IMAGE [IMAGE...]",
		Short: "Estimate per-channel mean and std over a set of images",
		Args:  cobra.MinimumNArgs(1),
		RunE:  StatsHandler,
	}

	addSizeFlags(cmd)
	return cmd
}
