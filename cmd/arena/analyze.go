package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/arena/internal/analysis"
	"github.com/spf13/cobra"
)

var phaseBody int

func analyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce frequencies and sensitivity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().IntVar(&phaseBody, "phase", -1, "print the y phase portrait of this body")
	return cmd
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(frames) < 2 {
		return fmt.Errorf("run %s has %d frame, need at least 2", meta.ID, len(frames))
	}

	sampleDt := frames[1].Time - frames[0].Time
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d every %.4fs\n\n", len(frames), sampleDt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tMASS\tBOUNCE_HZ\tPOWER")
	for i, m := range meta.Masses {
		freq, power := analysis.DominantFrequency(analysis.Series(frames, i, 1), sampleDt)
		fmt.Fprintf(w, "%d\t%.1f\t%.3f\t%.1f\n", i, m, freq, power)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	rate := analysis.Divergence(meta.Arena(), meta.Gravity, frames[0].Bodies, 1e-6, meta.Dt, meta.Duration)
	fmt.Printf("\ndivergence rate: %.4f /s\n", rate)

	if phaseBody < 0 {
		return nil
	}
	if phaseBody >= len(meta.Masses) {
		return fmt.Errorf("body %d out of range (run has %d)", phaseBody, len(meta.Masses))
	}
	fmt.Printf("\nbody %d: y vs vy\n", phaseBody)
	fmt.Print(analysis.NewPhasePortrait(frames, phaseBody, 1).ASCII(60, 20))
	return nil
}
