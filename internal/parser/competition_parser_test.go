package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailtstruongson-maker/reportbi/internal/model"
)

const competitionSample = "Bảng thi đua\n" +
	"Phòng ban\n" +
	"Thi đua Vivo\n" +
	"HOMECREDIT\n" +
	"Ghi chú\n" +
	"BÁN HÀNG OPPO\n" +
	"DTLK\tSLLK\tXX\tDTQĐ\n" +
	"BP Sales\t1\t2\t3\t4\n" +
	"Alice - E001\t100\t0\t9\t1,500\n" +
	"Bob - E002\t\t3\t9\t0\n" +
	"Stray - E999\t5\t5\t5\t5\n" +
	"Tổng\t100\t3\t18\t1,500\n"

func competitionMembers() map[string]string {
	return map[string]string{"Alice - E001": "BP Sales", "Bob - E002": "BP Sales"}
}

func TestCompetitionParser_HeadersByCriterion(t *testing.T) {
	t.Parallel()

	data := NewCompetitionParser(DefaultLabels()).Parse(competitionSample, competitionMembers())

	dtlk := data[model.CriterionDTLK]
	require.Len(t, dtlk.Headers, 1)
	assert.Equal(t, "Vivo", dtlk.Headers[0].DisplayTitle)
	assert.Equal(t, "Thi đua Vivo", dtlk.Headers[0].SourceTitle)
	assert.Equal(t, 0, dtlk.Headers[0].Column)

	sllk := data[model.CriterionSLLK]
	require.Len(t, sllk.Headers, 1)
	assert.Equal(t, "HC", sllk.Headers[0].DisplayTitle)

	dtqd := data[model.CriterionDTQD]
	require.Len(t, dtqd.Headers, 1)
	assert.Equal(t, "OPPO", dtqd.Headers[0].DisplayTitle)
	assert.Equal(t, 3, dtqd.Headers[0].Column)
}

func TestCompetitionParser_RecordsAndAbsence(t *testing.T) {
	t.Parallel()

	data := NewCompetitionParser(DefaultLabels()).Parse(competitionSample, competitionMembers())

	for _, c := range model.Criteria {
		table := data[c]
		require.Len(t, table.Records, 3, "criterion %s", c)
		assert.Equal(t, "E001 - Alice", table.Records[0].DisplayName)
		assert.Equal(t, "BP Sales", table.Records[0].GroupName)
		assert.Equal(t, "Bob - E002", table.Records[1].SourceName)
		assert.Equal(t, "Tổng", table.Records[2].DisplayName)
		for _, r := range table.Records {
			assert.Len(t, r.Values, len(table.Headers))
		}
	}

	// 空白与 0 均为无数据
	alice := data[model.CriterionSLLK].Records[0]
	assert.Nil(t, alice.Values[0])
	bob := data[model.CriterionDTLK].Records[1]
	assert.Nil(t, bob.Values[0])
	bobDTQD := data[model.CriterionDTQD].Records[1]
	assert.Nil(t, bobDTQD.Values[0])

	aliceDTQD := data[model.CriterionDTQD].Records[0]
	require.NotNil(t, aliceDTQD.Values[0])
	assert.Equal(t, 1500.0, *aliceDTQD.Values[0])
}

func TestCompetitionParser_DuplicateRowsOverwrite(t *testing.T) {
	t.Parallel()

	text := "Phòng ban\nThi đua Vivo\nDTLK\n" +
		"Alice - E001\t10\n" +
		"Bob - E002\t20\n" +
		"Alice - E001\t30\n"
	data := NewCompetitionParser(DefaultLabels()).Parse(text, competitionMembers())
	recs := data[model.CriterionDTLK].Records
	require.Len(t, recs, 2)
	assert.Equal(t, "Alice - E001", recs[0].SourceName)
	require.NotNil(t, recs[0].Values[0])
	assert.Equal(t, 30.0, *recs[0].Values[0])
}

func TestCompetitionParser_RealtimeCountsAsSLLK(t *testing.T) {
	t.Parallel()

	text := "Phòng ban\nThi đua Vivo\nHOMECREDIT\n" +
		"DTLK\tSL REALTIME\n" +
		"Alice - E001\t100\t4\n" +
		"Tổng\t100\t4\n"
	data := NewCompetitionParser(DefaultLabels()).Parse(text, competitionMembers())

	sllk := data[model.CriterionSLLK]
	require.Len(t, sllk.Headers, 1)
	assert.Equal(t, "HC", sllk.Headers[0].DisplayTitle)
	assert.Equal(t, model.CriterionSLLK, sllk.Headers[0].Criterion)
	assert.Equal(t, 1, sllk.Headers[0].Column)

	require.Len(t, sllk.Records, 2)
	require.NotNil(t, sllk.Records[0].Values[0])
	assert.Equal(t, 4.0, *sllk.Records[0].Values[0])
	assert.Len(t, data[model.CriterionDTLK].Headers, 1)
}

func TestCompetitionParser_StructuralMismatch(t *testing.T) {
	t.Parallel()

	p := NewCompetitionParser(DefaultLabels())
	tests := map[string]string{
		"no metrics row":          "Phòng ban\nThi đua Vivo\nAlice - E001\t1\n",
		"label after metrics row": "DTLK\nPhòng ban\nAlice - E001\t1\n",
		"empty":                   "",
	}
	for name, text := range tests {
		data := p.Parse(text, competitionMembers())
		assert.True(t, data.IsEmpty(), name)
		assert.Len(t, data, 3, name)
	}

	// 员工映射为空
	assert.True(t, p.Parse(competitionSample, nil).IsEmpty())
}

func TestIsMetricsRow(t *testing.T) {
	t.Parallel()

	assert.True(t, isMetricsRow("DTLK\tDTQĐ\tSLLK"))
	assert.True(t, isMetricsRow("sl realtime\tGhi chú"))
	assert.False(t, isMetricsRow("A\tB\tDTLK"))
	assert.False(t, isMetricsRow("Phòng ban"))
}

func TestCompetitionParser_ParseHeaders(t *testing.T) {
	t.Parallel()

	headers := NewCompetitionParser(DefaultLabels()).ParseHeaders(competitionSample)
	require.Len(t, headers, 3)
	assert.Equal(t, model.CriterionDTQD, headers[2].Criterion)
}
