// Package runner orchestrates one report run: load manifests, diff the
// snapshots, render the report and publish it.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/buildwatch/depreport/pkg/assets"
	"github.com/buildwatch/depreport/pkg/config"
	"github.com/buildwatch/depreport/pkg/diff"
	gh "github.com/buildwatch/depreport/pkg/github"
	"github.com/buildwatch/depreport/pkg/manifest"
	"github.com/buildwatch/depreport/pkg/publish"
	"github.com/buildwatch/depreport/pkg/report"
)

// defaultMeasureTimeout bounds each individual size measurement so a hung
// measurer cannot block the run forever.
const defaultMeasureTimeout = 30 * time.Second

// ReportPublisher abstracts the publish step so runs can be tested without
// the network.
type ReportPublisher interface {
	Publish(ctx context.Context, rep report.Report) (publish.Result, error)
}

// BuildReport computes the report for cfg without publishing it.
//
// ok is false when the new manifest cannot be loaded; the run ends silently
// in that case because having nothing to report is not an error. A missing
// old manifest just means no prior artifacts.
func BuildReport(ctx context.Context, cfg *config.Config) (rep report.Report, ok bool, err error) {
	newManifest, err := manifest.Load(cfg.NewManifestPath())
	if err != nil {
		log.Info().Err(err).Str("path", cfg.NewManifestPath()).Msg("No new manifest, nothing to report")
		return report.Report{}, false, nil
	}
	oldManifest := manifest.LoadOrEmpty(cfg.OldManifestPath())

	measurer := assets.Get(cfg.SizeStrategy)
	if measurer == nil {
		return report.Report{}, false, fmt.Errorf("unknown size strategy %q", cfg.SizeStrategy)
	}

	engine := &diff.Engine{
		OldFolder:      cfg.OldAssetsFolder,
		NewFolder:      cfg.NewAssetsFolder,
		Measurer:       measurer,
		MeasureTimeout: defaultMeasureTimeout,
	}
	rows, err := engine.Compute(ctx, oldManifest, newManifest)
	if err != nil {
		return report.Report{}, false, err
	}

	log.Debug().
		Int("artifacts", newManifest.Len()).
		Int("changed", len(rows)).
		Msg("Computed asset diff")

	return report.Build(rows, cfg.CommitSHA, cfg.OldAssetsBranch), true, nil
}

// Run executes one full report run against cfg.
func Run(ctx context.Context, cfg *config.Config, pub ReportPublisher) error {
	rep, ok, err := BuildReport(ctx, cfg)
	if err != nil || !ok {
		return err
	}

	res, err := pub.Publish(ctx, rep)
	if err != nil {
		return err
	}

	if res.Err != nil {
		// Best-effort: a rejected create/update is logged, not fatal.
		// The report is simply not visible on the pull request.
		evt := log.Warn().Err(res.Err)
		if gh.IsPermissionError(res.Err) {
			evt = evt.Str("hint", "the token cannot write comments; this is expected on pull requests from forks")
		}
		evt.Msg("Failed to publish the dependencies report")
		return nil
	}

	for _, action := range res.Actions {
		log.Info().Str("action", action.Type).Msg(action.Description)
	}
	return nil
}

// NewPublisher wires the GitHub-backed publisher for cfg.
func NewPublisher(cfg *config.Config) *publish.Publisher {
	return &publish.Publisher{
		Comments: gh.NewClient(cfg.Token),
		Owner:    cfg.Owner,
		Repo:     cfg.Repo,
		Number:   cfg.PullNumber,
	}
}
