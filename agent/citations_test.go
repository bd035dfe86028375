package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/lexflow/types"
)

func TestFormatWithFootnotes(t *testing.T) {
	answer := "Under Miranda v. Arizona, suspects must be informed of their rights. See also 18 U.S.C. § 3501."
	citations := []types.Citation{
		{Citation: "Miranda v. Arizona", Type: types.CitationCase},
		{Citation: "18 U.S.C. § 3501", Type: types.CitationStatute},
	}

	formatted, inserted := FormatWithFootnotes(answer, citations)
	assert.Equal(t, 2, inserted)
	assert.Contains(t, formatted, "Miranda v. Arizona[1]")
	assert.Contains(t, formatted, "18 U.S.C. § 3501[2]")
	assert.Contains(t, formatted, "Citations:\n[1] Miranda v. Arizona\n[2] 18 U.S.C. § 3501")
}

func TestFormatWithFootnotesFirstOccurrenceOnly(t *testing.T) {
	answer := "Roe v. Wade changed the landscape. Later cases revisited Roe v. Wade."
	citations := []types.Citation{{Citation: "Roe v. Wade", Type: types.CitationCase}}

	formatted, inserted := FormatWithFootnotes(answer, citations)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 1, strings.Count(formatted, "[1]")-1, "marker inserted once, footnote listed once")
	assert.True(t, strings.HasPrefix(formatted, "Roe v. Wade[1] changed"))
}

func TestFormatWithFootnotesMissingTextSkipped(t *testing.T) {
	answer := "The statute of frauds requires certain contracts in writing."
	citations := []types.Citation{
		{Citation: "UCC § 2-201", Type: types.CitationStatute},            // 未逐字出现
		{Citation: "statute of frauds", Type: types.CitationRegulation},   // 出现
	}

	formatted, inserted := FormatWithFootnotes(answer, citations)
	assert.Equal(t, 1, inserted)
	// 编号按抽取顺序，未匹配不挪号。
	assert.NotContains(t, formatted, "UCC § 2-201[1]")
	assert.Contains(t, formatted, "statute of frauds[2]")
	// 列表仍含全部引文，编号无间断。
	assert.Contains(t, formatted, "[1] UCC § 2-201")
	assert.Contains(t, formatted, "[2] statute of frauds")
}

func TestFormatWithFootnotesNoMatchesNoBlock(t *testing.T) {
	answer := "A plain answer without any citation text."
	citations := []types.Citation{{Citation: "Marbury v. Madison", Type: types.CitationCase}}

	formatted, inserted := FormatWithFootnotes(answer, citations)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, answer, formatted)
	assert.NotContains(t, formatted, "Citations:")
}

func TestFormatWithFootnotesIdempotentPlacement(t *testing.T) {
	answer := "Brown v. Board of Education ended segregation."
	citations := []types.Citation{{Citation: "Brown v. Board of Education", Type: types.CitationCase}}

	first, _ := FormatWithFootnotes(answer, citations)
	second, _ := FormatWithFootnotes(answer, citations)
	assert.Equal(t, first, second)
}

func TestParseCitations(t *testing.T) {
	raw := "```json\n[{\"citation\": \"Miranda v. Arizona\", \"type\": \"case\", \"verified\": true}, {\"citation\": \" \", \"type\": \"case\"}, {\"citation\": \"29 C.F.R. 1604\", \"type\": \"weird\"}]\n```"

	citations, err := parseCitations(raw)
	require.NoError(t, err)
	require.Len(t, citations, 2, "blank citation dropped")
	assert.Equal(t, types.CitationCase, citations[0].Type)
	assert.True(t, citations[0].Verified)
	assert.Equal(t, types.CitationCase, citations[1].Type, "unknown type normalized")
}

func TestParseKeywords(t *testing.T) {
	keywords, err := parseKeywords(`["contract formation", " consideration ", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"contract formation", "consideration"}, keywords)

	_, err = parseKeywords("not json at all")
	assert.Error(t, err)
}
