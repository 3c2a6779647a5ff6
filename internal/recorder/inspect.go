// File: internal/recorder/inspect.go
package recorder

import (
	"bufio"
	"fmt"
	"image/gif"
	"os"
	"time"
)

// GIFInfo describes an encoded animation.
type GIFInfo struct {
	Path      string        `json:"path"`
	Frames    int           `json:"frames"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	LoopCount int           `json:"loop_count"`
	Delays    []int         `json:"delays"`
	Duration  time.Duration `json:"duration"`
	SizeBytes int64         `json:"size_bytes"`
}

// Inspect decodes a GIF file and reports its structure.
func Inspect(path string) (GIFInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return GIFInfo{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return GIFInfo{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	anim, err := gif.DecodeAll(bufio.NewReader(f))
	if err != nil {
		return GIFInfo{}, fmt.Errorf("failed to decode GIF %s: %w", path, err)
	}

	info := GIFInfo{
		Path:      path,
		Frames:    len(anim.Image),
		Width:     anim.Config.Width,
		Height:    anim.Config.Height,
		LoopCount: anim.LoopCount,
		Delays:    anim.Delay,
		SizeBytes: stat.Size(),
	}
	var total int
	for _, d := range anim.Delay {
		total += d
	}
	info.Duration = time.Duration(total) * 10 * time.Millisecond
	return info, nil
}
