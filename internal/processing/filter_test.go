package processing

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/models"
	"github.com/peh-research/civicsift/internal/stats"
)

var testCity = cities.City{Name: "Testville", Slug: "testville"}

func TestRefilterReddit(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)

	all := []models.RedditCommentRow{
		{SubmissionTitle: "Camp cleared", Comment: "The homeless shelter downtown is packed"},
		{SubmissionTitle: "Food", Comment: "Great pizza place on 5th"},
		{SubmissionTitle: "Housing vote", Comment: "They want more affordable housing built"},
	}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.RedditAllComments), all))
	require.NoError(t, stats.WriteStatistics(filepath.Join(dir, dataset.StatisticsFile),
		map[string]string{
			stats.StatStartDate:     "2015-01-01",
			stats.StatTotalComments: "999",
		},
		[]string{stats.StatStartDate, stats.StatTotalComments}))

	require.NoError(t, RefilterReddit(root, testCity))

	filtered, err := dataset.ReadCSV[models.RedditCommentRow](
		filepath.Join(dir, dataset.RedditFilteredComments))
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "The homeless shelter downtown is packed", filtered[0].Comment)

	values, order, err := stats.ReadStatistics(filepath.Join(dir, dataset.StatisticsFile))
	require.NoError(t, err)
	assert.Equal(t, stats.StatStartDate, order[0])
	assert.Equal(t, "2015-01-01", values[stats.StatStartDate])
	assert.Equal(t, "3", values[stats.StatTotalComments])
	assert.Equal(t, "2", values[stats.StatTotalFilteredComments])
	assert.Equal(t, "66.67%", values[stats.StatPctCommentsFiltered])
}

func TestRefilterRedditMissingInput(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, RefilterReddit(root, testCity))
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)
	assert.False(t, dataset.FileExists(filepath.Join(dir, dataset.RedditFilteredComments)))
}

func TestFilterLexisParagraphs(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceNews)

	articles := []models.LexisArticleRow{
		{
			Title:      "Shelter opens",
			Date:       "2021-03-01",
			Source:     "Testville Gazette",
			CitySource: "Testville Gazette",
			FullText: "<bodyText>" +
				"<p>The homeless shelter on Main Street opened two years ago.</p>" +
				"<p>The weather was pleasant for most of the week.</p>" +
				"<p>Advocates pressed for affordable housing across the county.</p>" +
				"</bodyText>",
		},
		{Title: "Empty body", FullText: ""},
		{Title: "Residue only", FullText: "<p>short</p>"},
	}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.LexisNexisFile), articles))

	otherCity := cities.City{Name: "Nowhere", Slug: "nowhere"}
	require.NoError(t, FilterLexisParagraphs(root, []cities.City{testCity, otherCity}))

	rows, err := dataset.ReadCSV[models.ParagraphRow](
		filepath.Join(dir, dataset.FilteredArticlesName(testCity.Slug)))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "testville", rows[0].City)
	assert.Equal(t, "Shelter opens", rows[0].ArticleTitle)
	assert.Equal(t, "homeless", rows[0].KeywordsMatched)
	assert.Equal(t, "affordable housing", rows[1].KeywordsMatched)

	sheet, err := dataset.ReadSheet(dataset.SummaryPath(root, dataset.ParagraphStatsFile))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "testville", sheet.Cell(0, "city"))
	assert.Equal(t, "3", sheet.Cell(0, "articles_processed"))
	assert.Equal(t, "1", sheet.Cell(0, "articles_with_match"))
	assert.Equal(t, "2", sheet.Cell(0, "matching_paragraphs"))
	assert.Equal(t, "1", sheet.Cell(0, "empty_text_count"))
	assert.Equal(t, "1", sheet.Cell(0, "error_count"))
	assert.Equal(t, "1", sheet.Cell(0, "homeless"))
	assert.Equal(t, "1", sheet.Cell(0, "affordable_housing"))
	assert.Equal(t, "0", sheet.Cell(0, "beggar"))
}

func TestProcessLongArticlesParagraphBreaks(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceNews)

	matching := strings.Join([]string{
		"The council met on Monday evening.",
		"Residents filled the public gallery.",
		"Several speakers described homeless encampments near the river.",
		"Others asked about winter services.",
		"The mayor promised a written response.",
		"Staff took notes throughout.",
	}, " ")
	unrelated := strings.Join([]string{
		"The second item covered road repairs.",
		"Crews will repave two blocks downtown.",
		"Work begins next month.",
		"Detours will be posted in advance.",
		"Businesses asked for weekend scheduling.",
		"The item passed without debate.",
	}, " ")

	rows := []models.ParagraphRow{
		{
			City:            "testville",
			ArticleTitle:    "Short",
			ParagraphText:   "The city counted its homeless population last night.",
			KeywordsMatched: "homeless",
		},
		{
			City:            "testville",
			ArticleTitle:    "Long",
			ParagraphText:   matching + "\n\n" + unrelated,
			KeywordsMatched: "homeless",
		},
	}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.FilteredArticlesName(testCity.Slug)), rows))

	require.NoError(t, ProcessLongArticles(root, testCity, 0))

	out, err := dataset.ReadCSV[models.ParagraphRow](
		filepath.Join(dir, dataset.ProcessedArticlesName(testCity.Slug)))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Short", out[0].ArticleTitle)
	assert.Equal(t, rows[0].ParagraphText, out[0].ParagraphText)

	// Only the matching paragraph of the long row survives.
	assert.Equal(t, "Long", out[1].ArticleTitle)
	assert.Equal(t, matching, out[1].ParagraphText)
	assert.Equal(t, "homeless", out[1].KeywordsMatched)
}

func TestProcessLongArticlesFocusWindows(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceNews)

	sentences := []string{
		"The report arrived on Tuesday.",
		"It covered the last fiscal year.",
		"Spending rose in every department.",
		"Parks drew the largest increase.",
		"Libraries expanded weekend hours.",
		"Outreach teams counted more unhoused residents this winter.",
		"Transit ridership recovered slowly.",
		"Parking revenue stayed flat.",
		"The appendix listed every grant.",
		"Auditors signed off in March.",
		"The council accepted the report.",
		"A follow-up is due next year.",
	}

	rows := []models.ParagraphRow{{
		City:            "testville",
		ArticleTitle:    "Report",
		ParagraphText:   strings.Join(sentences, " "),
		KeywordsMatched: "unhoused",
	}}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.FilteredArticlesName(testCity.Slug)), rows))

	require.NoError(t, ProcessLongArticles(root, testCity, 0))

	out, err := dataset.ReadCSV[models.ParagraphRow](
		filepath.Join(dir, dataset.ProcessedArticlesName(testCity.Slug)))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, strings.Join(sentences[3:8], " "), out[0].ParagraphText)
	assert.Equal(t, "unhoused", out[0].KeywordsMatched)
}

func TestProcessLongArticlesCap(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceNews)

	first := strings.Join([]string{
		"The shelter board met early.",
		"Attendance was high all morning.",
		"Homeless services topped the agenda.",
		"Funding requests came first.",
	}, " ")
	second := strings.Join([]string{
		"A separate item followed at noon.",
		"It addressed the housing crisis directly.",
		"Three motions passed quickly.",
		"The session closed at two.",
	}, " ")
	third := strings.Join([]string{
		"Reporters left before the recess.",
		"Minutes will publish next week.",
		"No further items remained.",
		"The room emptied slowly.",
	}, " ")

	rows := []models.ParagraphRow{{
		City:          "testville",
		ArticleTitle:  "Capped",
		ParagraphText: first + "\n\n" + second + "\n\n" + third,
	}}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.FilteredArticlesName(testCity.Slug)), rows))

	require.NoError(t, ProcessLongArticles(root, testCity, 1))

	out, err := dataset.ReadCSV[models.ParagraphRow](
		filepath.Join(dir, dataset.ProcessedArticlesName(testCity.Slug)))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, first, out[0].ParagraphText)
	assert.Equal(t, "homeless", out[0].KeywordsMatched)
}
