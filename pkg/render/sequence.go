package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/plot"
	"github.com/matzehuels/forcegraph/pkg/viz"
)

// DefaultLabelColor is used when SequenceOptions.LabelColor is empty.
const DefaultLabelColor = "#333"

// SequenceOptions configures [WriteSequence].
type SequenceOptions struct {
	Dir        string             // Output directory, created if missing
	Prefix     string             // File name prefix, default "frame"
	Format     Format             // Must match the ForceGraph surface
	Frames     int                // Number of frames, at least 2
	Labels     *plot.MemoryLabels // Label surface the ForceGraph was built with
	LabelColor string
	Logger     *log.Logger
}

// WriteSequence renders an animation of fg as numbered frame files and
// returns their paths in order. The ForceGraph must draw onto a surface
// that [Encode] understands.
func WriteSequence(fg *viz.ForceGraph, anim viz.AnimateOptions, opts SequenceOptions) ([]string, error) {
	if opts.Prefix == "" {
		opts.Prefix = "frame"
	}
	if opts.LabelColor == "" {
		opts.LabelColor = DefaultLabelColor
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Frames < 2 {
		opts.Frames = 2
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", opts.Dir, err)
	}

	paths := make([]string, 0, opts.Frames)
	err := fg.AnimateFrames(opts.Frames, anim, func(i int, delta float64) error {
		path := filepath.Join(opts.Dir, fmt.Sprintf("%s_%04d%s", opts.Prefix, i, opts.Format.Ext()))
		if err := writeFile(path, func(w io.Writer) error {
			return WriteFrame(w, fg.Surface(), opts.Labels, opts.LabelColor)
		}); err != nil {
			return err
		}
		opts.Logger.Debug("wrote frame", "index", i, "delta", delta, "path", path)
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

// WriteFile renders the current state of fg into path.
func WriteFile(fg *viz.ForceGraph, path string, labels *plot.MemoryLabels, labelColor string) error {
	if labelColor == "" {
		labelColor = DefaultLabelColor
	}
	return writeFile(path, func(w io.Writer) error {
		return WriteFrame(w, fg.Surface(), labels, labelColor)
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
