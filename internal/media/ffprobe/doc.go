// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The exporter only needs frame-rate probing for the video-cut fallback, so
// the surface is small: Inspect runs the binary and VideoFrameRate parses the
// fractional r_frame_rate of the first video stream.
package ffprobe
