package parser

import (
	"testing"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

func TestReportRecognizer_Recognize(t *testing.T) {
	t.Parallel()

	r := NewReportRecognizer(DefaultLabels())
	tests := []struct {
		name string
		text string
		want model.ReportKind
	}{
		{"industry realtime", IndustryRealtimeHeader + "\nTivi\t1\t2\t3", model.ReportIndustryRealtime},
		{"industry luyke", IndustryLuyKeHeader + "\nTivi\t1\t2\t3\t4", model.ReportIndustryCumulative},
		{"employee list header", EmployeeListHeader + "\nBP A\t1\t2\t3\nX - 1\t1\t2\t3", model.ReportRevenue},
		{"employee list without header", "BP A\t1\t2\t3\nX - 1\t1\t2\t3\nY - 2\t1\t2\t3", model.ReportRevenue},
		{"competition", competitionSample, model.ReportCompetition},
		{"competition luyke", "Thi đua Vivo\tDTLK\tTarget\nST A\t1\t500", model.ReportCompetitionLuyKe},
		{"bonus", "Ngày\tTích lũy\n01/10/2025\t1\t2\nTổng cộng\t10\t2\t3", model.ReportBonus},
		{"luyke", "ST A\t1\t2\t3\t4\t1,000\t50%", model.ReportLuyKe},
		{"unknown", "hello world", model.ReportUnknown},
		{"blank", "  \n ", model.ReportUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := r.Recognize(tt.text)
			if got.Kind != tt.want {
				t.Fatalf("kind=%s conf=%.2f want=%s", got.Kind, got.Confidence, tt.want)
			}
		})
	}
}

func TestReportRecognizer_ValidateCompetition(t *testing.T) {
	t.Parallel()

	r := NewReportRecognizer(DefaultLabels())
	if !r.ValidateCompetition(competitionSample) {
		t.Fatal("sample should validate")
	}
	if r.ValidateCompetition("Phòng ban\nA - 1\t3") {
		t.Fatal("text without metric tokens should not validate")
	}
}
