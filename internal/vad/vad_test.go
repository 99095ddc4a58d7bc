package vad

import "testing"

func tone(n int, amp float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = amp
	}
	return s
}

func TestMergeShortSilencesFoldsIntoSpeech(t *testing.T) {
	in := []Interval{
		{StartS: 0, EndS: 1, Kind: Speech},
		{StartS: 1, EndS: 1.2, Kind: Silence}, // 200ms, shorter than MinSilenceS
		{StartS: 1.2, EndS: 2, Kind: Speech},
	}
	out := mergeShortSilences(in, MinSilenceS)
	if len(out) != 1 {
		t.Fatalf("expected short silence folded into a single speech run, got %+v", out)
	}
	if out[0].Kind != Speech || out[0].StartS != 0 || out[0].EndS != 2 {
		t.Fatalf("unexpected merged interval: %+v", out[0])
	}
}

func TestMergeShortSilencesKeepsLongSilence(t *testing.T) {
	in := []Interval{
		{StartS: 0, EndS: 1, Kind: Speech},
		{StartS: 1, EndS: 2, Kind: Silence}, // 1s, longer than MinSilenceS
		{StartS: 2, EndS: 3, Kind: Speech},
	}
	out := mergeShortSilences(in, MinSilenceS)
	if len(out) != 3 {
		t.Fatalf("expected silence interval preserved, got %+v", out)
	}
}

func TestEnergyGateClassifiesLoudAndQuiet(t *testing.T) {
	g := NewEnergyGate()
	audio := append(tone(480, 0.9), tone(480, 0.0)...) // 30ms loud, 30ms silent @16kHz
	intervals, err := g.Classify(audio, 16000)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if len(intervals) == 0 {
		t.Fatal("expected at least one interval")
	}
	if intervals[0].Kind != Speech {
		t.Fatalf("expected first interval to be speech, got %v", intervals[0].Kind)
	}
	// intervals must tile the input exactly
	if intervals[0].StartS != 0 {
		t.Fatalf("first interval must start at 0, got %v", intervals[0].StartS)
	}
	last := intervals[len(intervals)-1]
	wantEnd := float64(len(audio)) / 16000
	if last.EndS != wantEnd {
		t.Fatalf("intervals must cover input exactly: last EndS=%v want %v", last.EndS, wantEnd)
	}
}

func TestEnergyGateEmptyAudio(t *testing.T) {
	g := NewEnergyGate()
	intervals, err := g.Classify(nil, 16000)
	if err != nil {
		t.Fatalf("Classify(nil) returned error: %v", err)
	}
	if intervals != nil {
		t.Fatalf("expected no intervals for empty audio, got %+v", intervals)
	}
}
