package models

// TweetRow is one row of a per-city posts_english_*.csv.
type TweetRow struct {
	ID           string `csv:"id" json:"id"`
	Text         string `csv:"text" json:"text"`
	CreatedAt    string `csv:"created_at" json:"created_at"`
	AuthorID     string `csv:"author_id" json:"author_id"`
	UserLocation string `csv:"user_location" json:"user_location"`
	TweetGeo     string `csv:"tweet_geo" json:"tweet_geo"`
	TweetCountry string `csv:"tweet_country" json:"tweet_country"`
	PlaceType    string `csv:"place_type" json:"place_type"`
}

// AnnotatedTweetRow is the _rt.csv twin with retweet and lexicon columns.
type AnnotatedTweetRow struct {
	TweetRow
	IsRetweet       bool   `csv:"is_retweet" json:"is_retweet"`
	KeywordsMatched string `csv:"keywords_matched" json:"keywords_matched"`
}

// TweetCountRow is one day bucket of the counts endpoint.
type TweetCountRow struct {
	Start      string `csv:"start" json:"start"`
	End        string `csv:"end" json:"end"`
	TweetCount int    `csv:"tweet_count" json:"tweet_count"`
}

// TweetStatsRow is the one-row per-city collection summary.
type TweetStatsRow struct {
	City        string `csv:"city" json:"city"`
	Query       string `csv:"query" json:"query"`
	Start       string `csv:"start" json:"start"`
	End         string `csv:"end" json:"end"`
	TotalTweets int    `csv:"total_tweets" json:"total_tweets"`
}

type XCountsResponse struct {
	Data []XCountBucket `json:"data"`
	Meta XCountsMeta    `json:"meta"`
}

type XCountBucket struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	TweetCount int    `json:"tweet_count"`
}

type XCountsMeta struct {
	TotalTweetCount int    `json:"total_tweet_count"`
	NextToken       string `json:"next_token"`
}

type XSearchResponse struct {
	Data     []XTweet       `json:"data"`
	Includes XIncludes      `json:"includes"`
	Meta     XSearchMeta    `json:"meta"`
	Errors   []XAPIProblems `json:"errors"`
}

type XTweet struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	AuthorID  string `json:"author_id"`
	Geo       XGeo   `json:"geo"`
}

type XGeo struct {
	PlaceID     string       `json:"place_id"`
	Coordinates *XCoordinate `json:"coordinates"`
}

type XCoordinate struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type XIncludes struct {
	Users  []XUser  `json:"users"`
	Places []XPlace `json:"places"`
}

type XUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Location string `json:"location"`
}

type XPlace struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	CountryCode string `json:"country_code"`
	PlaceType   string `json:"place_type"`
}

type XSearchMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token"`
}

type XAPIProblems struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
