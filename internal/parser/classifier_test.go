package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"periodcheck/internal/model"
)

func mustTable(t *testing.T, text string) *model.Table {
	t.Helper()
	table, err := ReadTable(text, ',')
	require.NoError(t, err)
	return table
}

func TestClassify_ExactYearColumn(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "name,year,등록일\na,2019,20190105\nb,2020,20200211\nc,2021,20210330\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	assert.Equal(t, "year", cols.Year)
	assert.Equal(t, RoleYear, cols.Role("year"))
	assert.Equal(t, []string{"keyword", "combined"}, cols.Strategies)
}

func TestClassify_KeywordYearAndMonth(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "기준 년도,월,방문객\n2020년,1,10\n2020년,2,11\n2020년,3,12\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	if cols.Year != "기준 년도" || cols.Month != "월" {
		t.Fatalf("unexpected columns: %+v", cols)
	}
	assert.Empty(t, cols.Combined)
	assert.Equal(t, []string{"keyword"}, cols.Strategies)
}

func TestClassify_NamedYearWithGarbageIsRejected(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "year,month\nabc,1\n12,2\n2020,3\nxyz,4\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	assert.Empty(t, cols.Year, "only 1/4 year cells are plausible")
	assert.Equal(t, "month", cols.Month)
}

func TestClassify_CombinedFallbackForRegistrationDate(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "지역,등록일,건수\n"+
		"서울,20200115,1\n"+
		"부산,20200220,2\n"+
		"대구,20200310,3\n"+
		"인천,2020-04-01,4\n"+
		"광주,unknown,5\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	require.Equal(t, "등록일", cols.Combined)
	assert.Empty(t, cols.Year)
	assert.Empty(t, cols.Month)

	p := NewExtractor(DefaultExtractorConfig()).Extract(table, cols, nil)
	resolved := p.Resolved()
	if float64(resolved)/float64(table.Len()) < 0.6 {
		t.Fatalf("resolved %d/%d rows", resolved, table.Len())
	}
	assert.Equal(t, model.Int(2020), p.Year[0])
	assert.Equal(t, model.Int(1), p.Month[0])
	assert.Equal(t, model.Int(4), p.Month[3])
	assert.False(t, p.Year[4].Valid)
	assert.False(t, p.Month[4].Valid)
}

func TestClassify_CombinedRequiresDateHint(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "code,value\n202001,1\n202002,2\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)
	assert.True(t, cols.Empty())
}

func TestClassify_CombinedRejectsBadMonths(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "기간,v\n202099,1\n202098,2\n202001,3\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)
	assert.True(t, cols.Empty())
}

func TestClassify_FirstCombinedColumnWins(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "시작일,종료일\n20200101,20201231\n20200201,20210131\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)
	assert.Equal(t, "시작일", cols.Combined)
}

func TestClassify_CanonicalHeader(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "year,month,등록일\n,,20200115\n2020,3,20200220\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	assert.Equal(t, "year", cols.Year)
	assert.Equal(t, "month", cols.Month)
	assert.Empty(t, cols.Combined)
	assert.Equal(t, []string{"canonical"}, cols.Strategies)
}

func TestClassify_ConfigurableThreshold(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "year,x\n2020,1\n2021,1\nbad,1\n")

	strict := NewClassifier(DefaultClassifierConfig()).Classify(table)
	assert.Empty(t, strict.Year)

	cfg := DefaultClassifierConfig()
	cfg.ValueRatio = 0.5
	loose := NewClassifier(cfg).Classify(table)
	assert.Equal(t, "year", loose.Year)
}

func TestClassify_CanonicalHeaderWithGarbageFallsThrough(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "year,month,value\nabc,1,10\nxyz,2,11\n???,3,12\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	assert.Empty(t, cols.Year)
	assert.Equal(t, "month", cols.Month)
	assert.NotContains(t, cols.Strategies, "canonical")

	period, err := ParsePeriodFromName("202003-202005_foo.csv")
	require.NoError(t, err)
	p := NewExtractor(DefaultExtractorConfig()).Extract(table, cols, &period.Start)
	assert.Equal(t, []model.NullInt{model.Int(2020), model.Int(2020), model.Int(2020)}, p.Year)
	assert.Equal(t, []model.NullInt{model.Int(1), model.Int(2), model.Int(3)}, p.Month)
}

func TestClassify_CanonicalAcceptsBlankColumns(t *testing.T) {
	t.Parallel()

	table := mustTable(t, "year,month,기준일자\n,,20200115\n,,20200220\n")
	cols := NewClassifier(DefaultClassifierConfig()).Classify(table)

	assert.Equal(t, "year", cols.Year)
	assert.Equal(t, "month", cols.Month)
	assert.Equal(t, []string{"canonical"}, cols.Strategies)
}
