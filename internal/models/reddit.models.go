package models

import "encoding/json"

// RedditCommentRow is one row of all_comments.csv / filtered_comments.csv.
// Timestamps are rendered as "2006-01-02 15:04:05 UTC".
type RedditCommentRow struct {
	SubmissionTitle     string `csv:"Submission Title" json:"submission_title"`
	SubmissionScore     int    `csv:"Submission Score" json:"submission_score"`
	SubmissionURL       string `csv:"Submission URL" json:"submission_url"`
	SubmissionTimestamp string `csv:"Submission Timestamp" json:"submission_timestamp"`
	Comment             string `csv:"Comment" json:"comment"`
	CommentScore        int    `csv:"Comment Score" json:"comment_score"`
	CommentTimestamp    string `csv:"Comment Timestamp" json:"comment_timestamp"`
}

type RedditAPIResponse struct {
	Data RedditAPIData `json:"data"`
}

type RedditAPIData struct {
	After    string           `json:"after"`
	Children []RedditAPIChild `json:"children"`
}

type RedditAPIChild struct {
	Kind string             `json:"kind"`
	Data RedditAPIChildData `json:"data"`
}

type RedditAPIChildData struct {
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Body        string  `json:"body"`
	Score       int     `json:"score"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`

	// Replies is "" for leaf comments and a nested listing otherwise,
	// so it has to be decoded lazily.
	Replies RedditReplies `json:"replies"`
}

type RedditReplies struct {
	Listing *RedditAPIResponse
}

// UnmarshalJSON tolerates the API's empty-string replies field.
func (r *RedditReplies) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == `""` || string(data) == "null" {
		r.Listing = nil
		return nil
	}
	var listing RedditAPIResponse
	if err := json.Unmarshal(data, &listing); err != nil {
		return err
	}
	r.Listing = &listing
	return nil
}
