package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/arena/internal/optim"
	"github.com/spf13/cobra"
)

var (
	gridAxes   []string
	tuneMetric string
)

func tuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest metric value",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addConfigFlags(cmd)
	cmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "axis as name=min:max:steps (repeatable)")
	cmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to minimize")
	return cmd
}

// parseAxis reads name=min:max:steps.
func parseAxis(s string) (optim.Axis, error) {
	name, rng, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return optim.Axis{}, fmt.Errorf("grid %q: want name=min:max:steps", s)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return optim.Axis{}, fmt.Errorf("grid %q: want name=min:max:steps", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid %q min: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid %q max: %w", s, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid %q steps: %w", s, err)
	}
	return optim.Axis{Name: name, Values: optim.Linspace(lo, hi, n)}, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	axes := make([]optim.Axis, 0, len(gridAxes))
	for _, s := range gridAxes {
		a, err := parseAxis(s)
		if err != nil {
			return err
		}
		axes = append(axes, a)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := optim.NewGridSearch(cfg, axes, tuneMetric).Search(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(res.Params))
	for k := range res.Params {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Printf("runs: %d\n", res.Runs)
	fmt.Printf("best %s: %.6f\n", tuneMetric, res.Value)
	for _, k := range names {
		fmt.Printf("  %s = %g\n", k, res.Params[k])
	}
	return nil
}
