package pipeline

import "github.com/hwany-ai/patentguard/core"

// Monitor provides hooks to observe an analysis run.
// Implement this interface to track stage transitions and intermediate
// results as the pipeline executes.
type Monitor interface {
	StageChanged(runID string, stage core.Stage)
	AfterExpansion(runID, query string, fallback bool)
	AfterRetrieval(runID string, candidates []core.Candidate)
	AfterGrading(runID string, candidates []core.Candidate, failed int)
	Finish(runID string, result *core.AnalysisResult, err error)
}

// NoopMonitor returns a Monitor that ignores every event.
func NoopMonitor() Monitor {
	return &noopMonitor{}
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) StageChanged(_ string, _ core.Stage)              {}
func (n *noopMonitor) AfterExpansion(_, _ string, _ bool)               {}
func (n *noopMonitor) AfterRetrieval(_ string, _ []core.Candidate)      {}
func (n *noopMonitor) AfterGrading(_ string, _ []core.Candidate, _ int) {}
func (n *noopMonitor) Finish(_ string, _ *core.AnalysisResult, _ error) {}
