package tools

import (
	"context"
	"encoding/json"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/report"
)

// reportTool renders the final report from whatever the context holds.
// Absent upstream data degrades sections to placeholders; the tool only
// fails when the artifact store does.
type reportTool struct {
	gen *report.Generator
}

func (t *reportTool) Name() string { return "generate_comprehensive_report" }

func (t *reportTool) Description() string {
	return "Generate the comprehensive analysis report from all data collected in the research context and store it. Works even when some analysis steps failed."
}

func (t *reportTool) Parameters() map[string]any { return noParams() }

func (t *reportTool) Call(ctx context.Context, _ json.RawMessage, rc *research.Context) (string, error) {
	loc, err := t.gen.Generate(ctx, rc)
	if err != nil {
		return errPayload("report generation failed: " + err.Error()), nil
	}

	rc.ReportPath = loc
	return marshal(map[string]string{"report_path": loc})
}

// finishTool raises the control signal ending the workflow.
type finishTool struct{}

func (t *finishTool) Name() string { return "exit_program" }

func (t *finishTool) Description() string {
	return "Exit the research workflow. Call this once the report has been generated."
}

func (t *finishTool) Parameters() map[string]any { return noParams() }

func (t *finishTool) Call(_ context.Context, _ json.RawMessage, _ *research.Context) (string, error) {
	return "", research.ErrRunFinished
}
