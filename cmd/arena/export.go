package main

import (
	"fmt"
	"io"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/export"
	"github.com/san-kum/arena/internal/metrics"
	"github.com/san-kum/arena/internal/storage"
	"github.com/spf13/cobra"
)

func exportCommands() []*cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBody, "body", -1, "also plot position of this body")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportDBCmd := &cobra.Command{
		Use:   "export-db [run_id]",
		Short: "export run frames to a SQLite database",
		Args:  cobra.ExactArgs(1),
		RunE:  exportDB,
	}
	exportDBCmd.Flags().StringVarP(&outPath, "out", "o", "", "database file (default <run_id>.db)")
	exportDBCmd.Flags().BoolVar(&verifyDB, "verify", false, "read the database back and compare it with the run")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render body trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 700, "image side in pixels")

	return []*cobra.Command{plotCmd, exportJSONCmd, exportCSVCmd, exportDBCmd, exportSVGCmd}
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens path for writing, or stdout when path is empty.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("bodies: %d\n", len(meta.Masses))
	fmt.Printf("samples: %d\n\n", len(frames))

	energy := make([]float64, len(frames))
	for i, fr := range frames {
		energy[i] = metrics.TotalEnergy(fr.Bodies, meta.Gravity, meta.Arena().HalfSide())
	}
	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))

	if plotBody < 0 {
		return nil
	}
	if plotBody >= len(meta.Masses) {
		return fmt.Errorf("body %d out of range (run has %d)", plotBody, len(meta.Masses))
	}

	for axis, name := range []string{"x", "y"} {
		data := make([]float64, len(frames))
		for i, fr := range frames {
			data[i] = fr.Bodies[plotBody].Position[axis]
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d %s", plotBody, name)),
		))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportJSON(w, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := createOutput(outPath)
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportCSV(w, frames)
}

func exportDB(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".db"
	}
	db, err := storage.CreateFrameDB(path)
	if err != nil {
		return err
	}
	if err := db.WriteFrames(0, frames); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %d frames to %s\n", len(frames), path)

	if verifyDB {
		if err := storage.VerifyFrameDB(path, frames); err != nil {
			return err
		}
		fmt.Println("verified")
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = meta.ID + ".svg"
	}
	svg := export.TrajectoriesToSVG(frames, meta.Arena(), svgSize)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}
