package models

// MeetingRow is one row of meeting_minutes.csv.
type MeetingRow struct {
	Filename    string `csv:"filename" json:"filename"`
	MeetingDate string `csv:"meeting_date" json:"meeting_date"`
	Board       string `csv:"board" json:"board"`
	URL         string `csv:"url" json:"url"`
	FetchedAt   string `csv:"fetched_at" json:"fetched_at"`
}

// MinutesMatchRow is one lexicon-matching transcript paragraph.
type MinutesMatchRow struct {
	Filename     string `csv:"filename" json:"filename"`
	Date         string `csv:"date" json:"date"`
	Paragraph    string `csv:"paragraph" json:"paragraph"`
	MatchedWords string `csv:"matched_words" json:"matched_words"`
}
