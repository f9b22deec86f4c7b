package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Bellwether/internal/estimator"
	"github.com/MikeSquared-Agency/Bellwether/internal/render"
	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
	"github.com/MikeSquared-Agency/Bellwether/internal/session"
)

type estimateOptions struct {
	region    string
	period    string
	overrides []string
	format    string
}

func estimateCmd(configPath *string) *cobra.Command {
	var opts estimateOptions

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute one region's share and print the breakdown",
		Example: `  bellwether estimate --region Ohio --period 2020
  bellwether estimate --region "New York" --override race/White=0.55 --format text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.Context(), *configPath, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "Region name (defaults to the first region alphabetically)")
	cmd.Flags().StringVarP(&opts.period, "period", "p", "", "Preset period (defaults to the configured period)")
	cmd.Flags().StringArrayVarP(&opts.overrides, "override", "o", nil, "Preference override as dimension/category=value, repeatable")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format (json, text)")
	return cmd
}

// overrideFlag is one parsed --override value.
type overrideFlag struct {
	dimension string
	category  string
	value     float64
}

func parseOverride(s string) (overrideFlag, error) {
	pair, raw, ok := cutLast(s, "=")
	if !ok {
		return overrideFlag{}, fmt.Errorf("override %q: expected dimension/category=value", s)
	}
	dim, cat, ok := strings.Cut(pair, "/")
	if !ok || dim == "" || cat == "" {
		return overrideFlag{}, fmt.Errorf("override %q: expected dimension/category=value", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return overrideFlag{}, fmt.Errorf("override %q: %w", s, err)
	}
	return overrideFlag{dimension: strings.TrimSpace(dim), category: strings.TrimSpace(cat), value: v}, nil
}

func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

func runEstimate(ctx context.Context, configPath string, opts estimateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Logging)

	var flags []overrideFlag
	for _, raw := range opts.overrides {
		f, err := parseOverride(raw)
		if err != nil {
			return err
		}
		flags = append(flags, f)
	}

	ds, closeDB, err := loadDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	dims := cfg.ScoringDimensions()
	engine := scoring.NewEngine(dims, cfg.Engine.SanityTolerance, nil, logger)
	est := estimator.New(engine, ds, nil, nil, logger)

	sess := session.New(dims, ds, cfg.Engine.DefaultPeriod, cfg.Engine.SliderStep)
	if opts.period != "" {
		if err := sess.SelectPeriod(opts.period); err != nil {
			return err
		}
	}
	if opts.region != "" {
		if err := sess.SelectRegion(opts.region); err != nil {
			return err
		}
	}
	for _, f := range flags {
		if _, err := sess.SetOverride(f.dimension, f.category, f.value); err != nil {
			return err
		}
	}

	st := sess.Snapshot()
	res, err := est.Estimate(estimator.Request{
		SessionID: st.ID.String(),
		Region:    st.Region,
		Period:    st.Period,
		Overrides: st.Overrides,
	})
	if err != nil {
		return err
	}
	return writeEstimate(out, opts.format, res)
}

func writeEstimate(w io.Writer, format string, res scoring.Result) error {
	switch strings.ToLower(format) {
	case "text":
		c := render.NewChart(res.Share, res.Region, res.Period)
		fmt.Fprintln(w, c.Title)
		for i := len(c.Segments) - 1; i >= 0; i-- {
			fmt.Fprintf(w, "  %s\n", c.Segments[i].Label)
		}
		for _, col := range res.MissingColumns() {
			fmt.Fprintf(w, "  missing: %s\n", col)
		}
		return nil
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
