package cmd

import (
	"fmt"

	"github.com/signalnine/repairstats/internal/aggregate"
	"github.com/signalnine/repairstats/internal/logging"
	"github.com/signalnine/repairstats/internal/pipeline"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <results-dir>",
		Short: "Check that every run group fills whole sampling windows",
		Long:  "Load the results directory and report (target, criterion) groups whose final rows only partly fill a sampling window. Exits non-zero when any are found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			in, err := pipeline.Load(cfg, args[0], 1, pipeline.DefaultIterations)
			if err != nil {
				return err
			}
			return checkShapes(aggregate.Shapes(cfg, in.Final, in.Intermediate))
		},
	}
}

func checkShapes(shapes []aggregate.GroupShape) error {
	log := logging.New("validate")
	var partial int
	for _, s := range shapes {
		if s.Ignored > 0 {
			log.Warnf("%s/%s: %d rows past the last window are ignored", s.TargetClass, s.Criterion, s.Ignored)
		}
		if s.Partial {
			log.Errorf("%s/%s: %d final rows do not fill whole windows", s.TargetClass, s.Criterion, s.Final)
			partial++
		}
	}
	if partial > 0 {
		return fmt.Errorf("%w: %d of %d groups have partial windows", aggregate.ErrDataShape, partial, len(shapes))
	}
	log.Infof("%d groups ok", len(shapes))
	return nil
}
