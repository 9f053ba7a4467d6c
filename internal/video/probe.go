package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Info holds the probed properties of a video source.
type Info struct {
	DurationSeconds float64
	Width           int
	Height          int
	Codec           string
	FormatName      string
	SizeBytes       int64
	BitRate         int64
}

// Probe runs one ffprobe JSON call against path and parses the result.
func Probe(ctx context.Context, path string) (*Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w (%s)", path, err, stderr.String())
	}

	return ParseProbeJSON(stdout.Bytes())
}

// ParseProbeJSON converts raw ffprobe JSON output into an Info. Exported so
// the parser can be tested without an ffprobe binary.
func ParseProbeJSON(data []byte) (*Info, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	info := &Info{
		FormatName: raw.Format.FormatName,
	}
	info.DurationSeconds, _ = strconv.ParseFloat(raw.Format.Duration, 64)
	info.SizeBytes, _ = strconv.ParseInt(raw.Format.Size, 10, 64)
	info.BitRate, _ = strconv.ParseInt(raw.Format.BitRate, 10, 64)

	for _, s := range raw.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		info.Codec = s.CodecName
		break
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("no usable video stream in probe output")
	}
	return info, nil
}

// ffprobe JSON wire types. Numeric format fields arrive as strings.

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}
