package natsadapter

import "testing"

func TestSubjects(t *testing.T) {
	if got := ResourceUploadedSubject(12); got != "survey.resource.uploaded.12" {
		t.Errorf("ResourceUploadedSubject = %q", got)
	}
	if got := AnalysisProgressSubject(7); got != "survey.analysis.7" {
		t.Errorf("AnalysisProgressSubject = %q", got)
	}
	if AnalysisProgressAll != "survey.analysis.>" {
		t.Errorf("AnalysisProgressAll = %q", AnalysisProgressAll)
	}
}
