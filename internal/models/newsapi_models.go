package models

// ArticleRow is one row of newsapi_articles.csv. Absent fields are
// backfilled with "N/A".
type ArticleRow struct {
	Source      string `csv:"source" json:"source"`
	Author      string `csv:"author" json:"author"`
	Title       string `csv:"title" json:"title"`
	Description string `csv:"description" json:"description"`
	URL         string `csv:"url" json:"url"`
	PublishedAt string `csv:"publishedAt" json:"publishedAt"`
	Content     string `csv:"content" json:"content"`
}

type NewsAPIEverythingResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
}

type NewsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}
