package ffprobe

import (
	"math"
	"testing"
)

func TestVideoFrameRate(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", RFrameRate: "0/0"},
			{CodecType: "video", RFrameRate: "30000/1001"},
		},
	}
	rate, err := result.VideoFrameRate()
	if err != nil {
		t.Fatalf("frame rate: %v", err)
	}
	if math.Abs(rate-29.97) > 0.01 {
		t.Fatalf("unexpected rate %v", rate)
	}
}

func TestVideoFrameRateWholeNumber(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video", RFrameRate: "25"}}}
	rate, err := result.VideoFrameRate()
	if err != nil {
		t.Fatalf("frame rate: %v", err)
	}
	if rate != 25 {
		t.Fatalf("unexpected rate %v", rate)
	}
}

func TestVideoFrameRateErrors(t *testing.T) {
	for _, result := range []Result{
		{},
		{Streams: []Stream{{CodecType: "video", RFrameRate: ""}}},
		{Streams: []Stream{{CodecType: "video", RFrameRate: "30/0"}}},
		{Streams: []Stream{{CodecType: "video", RFrameRate: "abc"}}},
	} {
		if _, err := result.VideoFrameRate(); err == nil {
			t.Fatalf("expected error for %+v", result)
		}
	}
}

func TestVideoStreamCount(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "VIDEO"},
		},
	}
	if result.VideoStreamCount() != 2 {
		t.Fatalf("expected 2 video streams, got %d", result.VideoStreamCount())
	}
}
