package models

// CitySummaryRow is one row of data_summary/data_summary_by_city.csv.
// The final row carries City "Grand Total" with column sums.
type CitySummaryRow struct {
	City                       string `csv:"City" json:"city"`
	TotalFilteredRedditPosts   int    `csv:"Total Filtered Reddit Posts" json:"total_filtered_reddit_posts"`
	TotalFilteredRedditComment int    `csv:"Total Filtered Reddit Comments" json:"total_filtered_reddit_comments"`
	TotalNewsArticles          int    `csv:"Total News Articles" json:"total_news_articles"`
	TotalNewsParagraphs        int    `csv:"Total News Paragraphs" json:"total_news_paragraphs"`
	TotalXTweets               int    `csv:"Total X Tweets" json:"total_x_tweets"`
	TotalXGeolocatedTweets     int    `csv:"Total X Geolocated Tweets" json:"total_x_geolocated_tweets"`
	TotalXNonRetweets          int    `csv:"Total X Non-Retweets" json:"total_x_non_retweets"`
	TotalMeetingMinutesResults int    `csv:"Total Meeting Minutes Results" json:"total_meeting_minutes_results"`
	TotalMeetings              int    `csv:"Total Meetings" json:"total_meetings"`
}

// ParagraphFilterStats accumulates per-city counters for the LexisNexis
// paragraph filter summary sheet.
type ParagraphFilterStats struct {
	City               string
	ArticlesProcessed  int
	ArticlesWithMatch  int
	MatchingParagraphs int
	EmptyTextCount     int
	ErrorCount         int
	KeywordCounts      map[string]int
}
