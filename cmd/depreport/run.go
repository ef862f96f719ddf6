package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/buildwatch/depreport/pkg/config"
	gh "github.com/buildwatch/depreport/pkg/github"
	"github.com/buildwatch/depreport/pkg/runner"
)

var (
	flagToken        string
	flagOldFolder    string
	flagOldBranch    string
	flagNewFolder    string
	flagRepository   string
	flagPullNumber   int
	flagSHA          string
	flagManifestName string
	flagSizeStrategy string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the dependencies report and publish it to the pull request",
	Long: `Compare the old and new assets folders and create or update the
dependencies report comment on the pull request.

The run ends silently when the new assets folder carries no readable
manifest: nothing to report is not an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runner.Run(cmd.Context(), cfg, runner.NewPublisher(cfg))
	},
}

func init() {
	addReportFlags(runCmd)
	runCmd.Flags().StringVar(&flagToken, "token", "", "Access token for the comment backend (defaults to $GITHUB_TOKEN)")
	runCmd.Flags().StringVar(&flagRepository, "repository", "", "Repository as owner/name (defaults to $GITHUB_REPOSITORY)")
	runCmd.Flags().IntVar(&flagPullNumber, "pr", 0, "Pull request number (defaults to the number in $GITHUB_REF)")
	rootCmd.AddCommand(runCmd)
}

// addReportFlags registers the flags shared by run and render.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagOldFolder, "old-assets-folder", "", "Folder with the prior manifest and artifact files")
	cmd.Flags().StringVar(&flagOldBranch, "old-assets-branch", "", "Display label of the baseline branch")
	cmd.Flags().StringVar(&flagNewFolder, "new-assets-folder", "", "Folder with the current manifest and artifact files")
	cmd.Flags().StringVar(&flagSHA, "sha", "", "Commit under review (defaults to $GITHUB_SHA)")
	cmd.Flags().StringVar(&flagManifestName, "manifest-name", "", "Manifest file name inside each assets folder")
	cmd.Flags().StringVar(&flagSizeStrategy, "size-strategy", "", "Size measurement strategy")
}

// buildConfig resolves the run configuration from flags, environment and
// the optional project config file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	fileCfg, err := config.LoadFile(".")
	if err != nil {
		return nil, err
	}

	if fileCfg.LogLevel != "" && !cmd.Flags().Changed("log-level") {
		setupLogging(fileCfg.LogLevel)
	}

	cfg := &config.Config{
		Token:           config.ResolveString(flagToken, os.Getenv(gh.TokenEnv), "", ""),
		OldAssetsFolder: flagOldFolder,
		OldAssetsBranch: config.ResolveString(flagOldBranch, "", fileCfg.OldAssetsBranch, "trunk"),
		NewAssetsFolder: flagNewFolder,
		CommitSHA:       config.ResolveString(flagSHA, os.Getenv(config.SHAEnv), "", ""),
		ManifestName:    config.ResolveString(flagManifestName, "", fileCfg.ManifestName, ""),
		SizeStrategy:    config.ResolveString(flagSizeStrategy, "", fileCfg.SizeStrategy, ""),
	}
	cfg.ApplyDefaults()

	if slug := config.ResolveString(flagRepository, os.Getenv(config.RepositoryEnv), "", ""); slug != "" {
		owner, repo, err := config.ParseRepository(slug)
		if err != nil {
			return nil, err
		}
		cfg.Owner, cfg.Repo = owner, repo
	}

	cfg.PullNumber = flagPullNumber
	if cfg.PullNumber == 0 {
		if ref := os.Getenv(config.RefEnv); ref != "" {
			if number, err := config.PullNumberFromRef(ref); err == nil {
				cfg.PullNumber = number
			}
		}
	}

	return cfg, nil
}
