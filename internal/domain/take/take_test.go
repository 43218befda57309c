package take

import "testing"

func TestProgress_Weighted(t *testing.T) {
	tk := New("t1", "clip.mp4", "/media/clip.mp4", "")

	if got := tk.Progress(); got != 0 {
		t.Fatalf("initial progress = %d, want 0", got)
	}

	// visual (2.0) of total 6.0 -> 33%
	tk.StageStates[StageVisual] = StageCompleted
	if got := tk.Progress(); got != 33 {
		t.Errorf("after visual: progress = %d, want 33", got)
	}

	// + acoustic (2.0) -> 66%
	tk.StageStates[StageAcoustic] = StageCompleted
	if got := tk.Progress(); got != 66 {
		t.Errorf("after acoustic: progress = %d, want 66", got)
	}

	// failed stages still count as finished work
	tk.StageStates[StageAlignment] = StageFailed
	if got := tk.Progress(); got != 83 {
		t.Errorf("after alignment failure: progress = %d, want 83", got)
	}

	tk.StageStates[StageScoring] = StageCompleted
	tk.StageStates[StageIndexing] = StageCompleted
	if got := tk.Progress(); got != 100 {
		t.Errorf("final progress = %d, want 100", got)
	}
}

func TestAnalyzed(t *testing.T) {
	tk := New("t1", "clip.mp4", "/media/clip.mp4", "")
	if tk.Analyzed() {
		t.Fatal("fresh take reported analyzed")
	}

	for _, s := range Stages {
		tk.StageStates[s] = StageCompleted
	}
	if !tk.Analyzed() {
		t.Fatal("fully completed take not reported analyzed")
	}

	// A failed stage is terminal too.
	tk.StageStates[StageVisual] = StageFailed
	if !tk.Analyzed() {
		t.Fatal("take with failed stage should still be terminal")
	}
}

func TestIndexed(t *testing.T) {
	tk := New("t1", "clip.mp4", "/media/clip.mp4", "")
	if tk.Indexed() {
		t.Fatal("fresh take reported indexed")
	}

	tk.Embedding = []float32{0.1, 0.2}
	if tk.Indexed() {
		t.Fatal("embedding without completed indexing stage should not count")
	}

	tk.StageStates[StageIndexing] = StageCompleted
	if !tk.Indexed() {
		t.Fatal("take with embedding and completed indexing should be indexed")
	}
}
