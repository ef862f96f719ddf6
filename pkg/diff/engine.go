// Package diff computes per-artifact changes between two asset snapshots:
// dependency additions and removals plus byte-size deltas.
package diff

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/buildwatch/depreport/pkg/assets"
	"github.com/buildwatch/depreport/pkg/manifest"
)

// Row is one reportable artifact change.
type Row struct {
	// Handle is the artifact's script handle.
	Handle string

	// Added are dependency ids present in the new snapshot only.
	Added []string

	// Removed are dependency ids present in the old snapshot only.
	Removed []string

	// NewSize is the measured size of the new artifact file in bytes.
	NewSize int64

	// Diff is the size change relative to the old snapshot.
	Diff SizeDiff
}

// Engine compares the artifacts of two asset folders.
type Engine struct {
	// OldFolder and NewFolder hold the artifact files of the two snapshots.
	OldFolder string
	NewFolder string

	// Measurer determines how artifact file sizes are measured.
	Measurer assets.Measurer

	// MeasureTimeout bounds each individual size measurement.
	// Zero means no bound.
	MeasureTimeout time.Duration
}

// Compute produces a row for every artifact in the new manifest whose size
// or dependency set changed, in the new manifest's order. Artifacts present
// only in the old manifest are never reported; the report tracks what exists
// now, not what was removed outright.
func (e *Engine) Compute(ctx context.Context, oldManifest, newManifest *manifest.Manifest) ([]Row, error) {
	if e.Measurer == nil {
		return nil, fmt.Errorf("diff engine requires a size measurer")
	}

	var rows []Row
	for _, handle := range newManifest.Handles() {
		newRec, _ := newManifest.Record(handle)
		oldRec, existed := oldManifest.Record(handle)

		added := difference(newRec.Dependencies, oldRec.Dependencies)
		removed := difference(oldRec.Dependencies, newRec.Dependencies)

		// The two measurements are independent reads and may run
		// concurrently. The old side is only measured when the
		// artifact existed before: no prior snapshot means no prior
		// size, which is not the same thing as a zero-byte file.
		var (
			wg               sync.WaitGroup
			oldSize, newSize int64
			oldErr, newErr   error
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			newSize, newErr = e.measure(ctx, assets.ResolveScriptPath(e.NewFolder, handle))
		}()

		if existed {
			wg.Add(1)
			go func() {
				defer wg.Done()
				oldSize, oldErr = e.measure(ctx, assets.ResolveScriptPath(e.OldFolder, handle))
			}()
		}
		wg.Wait()

		if newErr != nil {
			return nil, fmt.Errorf("failed to measure new size of %q: %w", handle, newErr)
		}
		if oldErr != nil {
			return nil, fmt.Errorf("failed to measure old size of %q: %w", handle, oldErr)
		}

		// Unchanged artifacts are dropped; the report shows only what
		// changed.
		if newSize == oldSize && len(added) == 0 && len(removed) == 0 {
			continue
		}

		rows = append(rows, Row{
			Handle:  handle,
			Added:   added,
			Removed: removed,
			NewSize: newSize,
			Diff:    ComputeSizeDiff(oldSize, newSize),
		})
	}

	return rows, nil
}

func (e *Engine) measure(ctx context.Context, path string) (int64, error) {
	if e.MeasureTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.MeasureTimeout)
		defer cancel()
	}
	return e.Measurer.Size(ctx, path)
}

// difference returns the members of a that are absent from b, preserving
// a's order of first appearance.
func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}

	var out []string
	for _, id := range a {
		if _, ok := exclude[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
