package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tester/internal/config"
	"tester/internal/errors"
	"tester/internal/fixture"
	"tester/internal/report"
	"tester/internal/runner"
)

// newExecutor is a variable to allow tests to replace the executor.
var newExecutor = func(cfg *config.Config, log *zap.Logger) (executor, error) {
	return runner.New(cfg, log)
}

type executor interface {
	Run(ctx context.Context, f fixture.Fixture) (runner.Result, error)
	Command() []string
}

// runSuite runs every fixture in discovery order and reports each outcome.
// It is the only place that decides whether an error ends the run: fatal
// kinds are returned, everything else is reported and the run moves on.
func runSuite(ctx context.Context, cfg *config.Config, r *report.Renderer, p *report.Progress, log *zap.Logger) error {
	exec, err := newExecutor(cfg, log)
	if err != nil {
		return err
	}
	log.Debug("starting run",
		zap.Strings("command", exec.Command()),
		zap.String("answers_dir", cfg.AnswersDir),
		zap.Duration("timeout", cfg.Timeout),
	)

	for f, err := range fixture.Discover(cfg.AnswersDir, cfg.InputSuffix, cfg.OutputSuffix) {
		if err != nil {
			if errors.KindOf(err).Fatal() {
				return err
			}
			r.Error(err)
			continue
		}

		p.Start(f.Name)
		res, err := exec.Run(ctx, f)
		p.Stop()

		if err != nil {
			if ctx.Err() != nil {
				r.Finish()
				return fmt.Errorf("run interrupted before test %s finished: %w", f.Name, ctx.Err())
			}
			if errors.KindOf(err).Fatal() {
				return err
			}
			r.Error(err)
			continue
		}
		r.Result(f, res)
	}

	r.Finish()
	log.Debug("run finished", zap.Any("summary", r.Summary()))
	return nil
}
