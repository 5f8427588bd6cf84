package models

// LexisArticleRow is one row of a per-city lexisnexis.csv. FullText
// holds the Document content XML exactly as returned by the API.
type LexisArticleRow struct {
	Title      string `csv:"Title" json:"title"`
	Date       string `csv:"Date" json:"date"`
	Source     string `csv:"Source" json:"source"`
	CitySource string `csv:"City Source" json:"city_source"`
	FullText   string `csv:"Full Text" json:"full_text"`
}

// ParagraphRow is one filtered/processed article paragraph, shared by
// <slug>_filtered.csv and <slug>_processed_articles.csv.
type ParagraphRow struct {
	City            string `csv:"city" json:"city"`
	ArticleTitle    string `csv:"article_title" json:"article_title"`
	ArticleDate     string `csv:"article_date" json:"article_date"`
	ArticleSource   string `csv:"article_source" json:"article_source"`
	CitySource      string `csv:"city_source" json:"city_source"`
	ParagraphText   string `csv:"paragraph_text" json:"paragraph_text"`
	KeywordsMatched string `csv:"keywords_matched" json:"keywords_matched"`
}

type LexisSearchResponse struct {
	ODataContext string        `json:"@odata.context"`
	ODataCount   int           `json:"@odata.count"`
	ODataNext    string        `json:"@odata.nextLink"`
	Value        []LexisResult `json:"value"`
}

type LexisResult struct {
	ResultID string         `json:"ResultId"`
	Title    string         `json:"Title"`
	Date     string         `json:"Date"`
	Source   LexisSource    `json:"Source"`
	Document *LexisDocument `json:"Document"`
}

type LexisSource struct {
	Name string `json:"Name"`
}

type LexisDocument struct {
	DocumentID string `json:"DocumentId"`
	Content    string `json:"Content"`
}
