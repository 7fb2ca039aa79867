package metrics

import (
	"sync"
	"testing"
	"time"
)

// testRecorder counts calls; other packages' tests use their own fakes built the same way.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildOutcomes  map[BuildOutcomeLabel]int
	hookFailures   map[string]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcomeLabel]int{},
		hookFailures:   map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) ObserveBuildDuration(time.Duration) {}

func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[outcome]++
}

func (t *testRecorder) ObserveHookDuration(string, time.Duration) {}

func (t *testRecorder) IncHookFailure(point string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hookFailures[point]++
}

var _ Recorder = (*testRecorder)(nil)
var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)

func TestRecorderInterfaceCounts(t *testing.T) {
	var r Recorder = newTestRecorder()
	r.ObserveStageDuration("End", time.Millisecond)
	r.IncStageResult("End", ResultFatal)
	r.IncHookFailure("OnCompileComplete")

	tr := r.(*testRecorder)
	if tr.stageDurations["End"] != 1 || tr.stageResults["End"][ResultFatal] != 1 || tr.hookFailures["OnCompileComplete"] != 1 {
		t.Fatalf("unexpected counts: %+v", tr)
	}
}
