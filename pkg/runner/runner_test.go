package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buildwatch/depreport/pkg/config"
	"github.com/buildwatch/depreport/pkg/publish"
	"github.com/buildwatch/depreport/pkg/report"
)

type fakePublisher struct {
	reports []report.Report
	result  publish.Result
	err     error
}

func (f *fakePublisher) Publish(ctx context.Context, rep report.Report) (publish.Result, error) {
	f.reports = append(f.reports, rep)
	return f.result, f.err
}

// writeSnapshot lays out one assets folder: a manifest plus artifact files.
func writeSnapshot(t *testing.T, manifestJSON string, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	if manifestJSON != "" {
		if err := os.WriteFile(filepath.Join(dir, "assets.json"), []byte(manifestJSON), 0644); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testConfig(oldFolder, newFolder string) *config.Config {
	cfg := &config.Config{
		OldAssetsFolder: oldFolder,
		OldAssetsBranch: "trunk",
		NewAssetsFolder: newFolder,
		CommitSHA:       "abc1234",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestRunSilentWhenNewManifestMissing(t *testing.T) {
	oldFolder := writeSnapshot(t, `{"app": {"dependencies": []}}`, nil)
	newFolder := writeSnapshot(t, "", nil)

	pub := &fakePublisher{}
	if err := Run(context.Background(), testConfig(oldFolder, newFolder), pub); err != nil {
		t.Fatalf("Run() error = %v, a missing new manifest must end the run silently", err)
	}
	if len(pub.reports) != 0 {
		t.Errorf("published %d reports, want none", len(pub.reports))
	}
}

func TestRunPublishesReport(t *testing.T) {
	oldFolder := writeSnapshot(t, `{}`, nil)
	newFolder := writeSnapshot(t,
		`{"app": {"dependencies": ["wp-element"]}}`,
		map[string]string{"app.js": "console.log(1);"})

	pub := &fakePublisher{}
	if err := Run(context.Background(), testConfig(oldFolder, newFolder), pub); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(pub.reports) != 1 {
		t.Fatalf("published %d reports, want 1", len(pub.reports))
	}
	rep := pub.reports[0]
	if rep.OnlyUpdate {
		t.Error("OnlyUpdate must be false when something changed")
	}
	for _, want := range []string{"`app`", "abc1234", "trunk", "`wp-element`"} {
		if !strings.Contains(rep.Body, want) {
			t.Errorf("report body missing %q", want)
		}
	}
}

func TestRunNoChangesFlagsOnlyUpdate(t *testing.T) {
	manifestJSON := `{"app": {"dependencies": ["wp-element"]}}`
	files := map[string]string{"app.js": "identical"}
	oldFolder := writeSnapshot(t, manifestJSON, files)
	newFolder := writeSnapshot(t, manifestJSON, files)

	pub := &fakePublisher{}
	if err := Run(context.Background(), testConfig(oldFolder, newFolder), pub); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(pub.reports) != 1 {
		t.Fatalf("published %d reports, want 1", len(pub.reports))
	}
	if !pub.reports[0].OnlyUpdate {
		t.Error("a no-change run must flag the report as update-only")
	}
}

func TestRunPublishRejectionIsNotFatal(t *testing.T) {
	oldFolder := writeSnapshot(t, `{}`, nil)
	newFolder := writeSnapshot(t,
		`{"app": {"dependencies": []}}`,
		map[string]string{"app.js": "x"})

	pub := &fakePublisher{result: publish.Result{Err: fmt.Errorf("403 Resource not accessible")}}
	if err := Run(context.Background(), testConfig(oldFolder, newFolder), pub); err != nil {
		t.Fatalf("Run() error = %v, a rejected publish must not fail the run", err)
	}
}

func TestRunScanFailureIsFatal(t *testing.T) {
	oldFolder := writeSnapshot(t, `{}`, nil)
	newFolder := writeSnapshot(t,
		`{"app": {"dependencies": []}}`,
		map[string]string{"app.js": "x"})

	pub := &fakePublisher{err: fmt.Errorf("network failure during pagination")}
	if err := Run(context.Background(), testConfig(oldFolder, newFolder), pub); err == nil {
		t.Fatal("Run() expected error when the comment scan fails")
	}
}

func TestRunUnknownSizeStrategy(t *testing.T) {
	newFolder := writeSnapshot(t, `{"app": {"dependencies": []}}`, nil)

	cfg := testConfig(t.TempDir(), newFolder)
	cfg.SizeStrategy = "gzip"

	if err := Run(context.Background(), cfg, &fakePublisher{}); err == nil {
		t.Fatal("Run() expected error for an unregistered size strategy")
	}
}
