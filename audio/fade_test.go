package audio

import (
	"testing"
	"time"
)

func TestFadeTaskLinear(t *testing.T) {
	task := FadeTask{Direction: FadeIn, From: 0, To: 0.8, Duration: 2 * time.Second}

	steps := []struct {
		dt   time.Duration
		want float64
		done bool
	}{
		{500 * time.Millisecond, 0.2, false},
		{500 * time.Millisecond, 0.4, false},
		{500 * time.Millisecond, 0.6, false},
		{500 * time.Millisecond, 0.8, true},
	}
	for i, s := range steps {
		v, done := task.Advance(s.dt)
		if !approx(v, s.want) || done != s.done {
			t.Fatalf("step %d: expected (%v, %v), got (%v, %v)", i, s.want, s.done, v, done)
		}
	}
}

func TestFadeTaskOvershootPinsTarget(t *testing.T) {
	task := FadeTask{Direction: FadeOut, From: 0.7, To: 0, Duration: time.Second}
	v, done := task.Advance(3 * time.Second)
	if !done || v != 0 {
		t.Fatalf("expected pinned 0 and done, got %v %v", v, done)
	}
	if task.Elapsed != task.Duration {
		t.Fatalf("elapsed should stop at duration, got %v", task.Elapsed)
	}
	if task.Progress() != 1 {
		t.Fatalf("expected progress 1, got %v", task.Progress())
	}
}

func TestFadeTaskZeroDuration(t *testing.T) {
	task := FadeTask{From: 0, To: 1}
	if task.Progress() != 1 {
		t.Fatalf("zero duration should report full progress")
	}
	v, done := task.Advance(0)
	if !done || v != 1 {
		t.Fatalf("expected immediate completion, got %v %v", v, done)
	}
}

func TestFadeTaskIgnoresNegativeDelta(t *testing.T) {
	task := FadeTask{From: 0, To: 1, Duration: time.Second}
	task.Advance(-time.Second)
	if task.Elapsed != 0 {
		t.Fatalf("negative delta should not move the fade, got %v", task.Elapsed)
	}
}

func TestChannelNames(t *testing.T) {
	if ChannelA.String() != "A" || ChannelB.String() != "B" || Channel(7).String() != "?" {
		t.Fatalf("unexpected channel names")
	}
	if ChannelA.Other() != ChannelB || ChannelB.Other() != ChannelA {
		t.Fatalf("Other should swap channels")
	}
	if FadeIn.String() != "in" || FadeOut.String() != "out" {
		t.Fatalf("unexpected direction names")
	}
}

func TestRolloff(t *testing.T) {
	tests := []struct {
		name               string
		distance, min, max float64
		want               float64
	}{
		{"inside_min", 0.5, 1, 11, 1},
		{"at_min", 1, 1, 11, 1},
		{"midway", 6, 1, 11, 0.5},
		{"at_max", 11, 1, 11, 0},
		{"beyond_max", 50, 1, 11, 0},
		{"inverted_range", 5, 10, 2, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rolloff(tc.distance, tc.min, tc.max); !approx(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
