package assets

import (
	"context"
	"fmt"
	"os"
)

// Measurer reports the byte size of an asset file.
type Measurer interface {
	// Size returns the size of the file at path. A path that does not
	// exist measures as 0 without error; any other failure is returned.
	Size(ctx context.Context, path string) (int64, error)

	// Name returns the strategy name used for registration.
	Name() string
}

// FileMeasurer measures plain on-disk file sizes. It is the "file" strategy.
type FileMeasurer struct{}

// NewFileMeasurer creates the file-size measurement strategy.
func NewFileMeasurer() *FileMeasurer {
	return &FileMeasurer{}
}

// Name returns the strategy name.
func (m *FileMeasurer) Name() string {
	return "file"
}

// Size returns the byte size of path, or 0 when the file does not exist.
func (m *FileMeasurer) Size(ctx context.Context, path string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat asset %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("asset path %s is a directory", path)
	}

	return info.Size(), nil
}
