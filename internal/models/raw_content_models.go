package models

import "time"

// RawRecord is the unit published to the raw-records topic in streaming
// mode. Columns holds the full CSV row keyed by header so the scrub
// worker can rebuild source-specific rows without knowing every schema.
type RawRecord struct {
	RecordID        string            `json:"record_id"`
	Source          string            `json:"source"`
	City            string            `json:"city"`
	Text            string            `json:"text"`
	Columns         map[string]string `json:"columns"`
	KeywordsMatched []string          `json:"keywords_matched,omitempty"`
	CollectedAt     time.Time         `json:"collected_at"`
}

// ScrubbedRecordRow is what the scrub worker appends to the per-city
// stream CSV after deidentification.
type ScrubbedRecordRow struct {
	RecordID         string `csv:"record_id"`
	Source           string `csv:"source"`
	City             string `csv:"city"`
	CollectedAt      string `csv:"collected_at"`
	Text             string `csv:"text"`
	DeidentifiedText string `csv:"deidentified_text"`
	KeywordsMatched  string `csv:"keywords_matched"`
}

// ArchiveRecord is the deidentified form written to the research table.
// The TTL attribute is attached by the storage layer at write time.
type ArchiveRecord struct {
	RecordID        string `json:"record_id" dynamodbav:"record_id"`
	Source          string `json:"source" dynamodbav:"source"`
	City            string `json:"city" dynamodbav:"city"`
	Text            string `json:"text" dynamodbav:"text"`
	KeywordsMatched string `json:"keywords_matched" dynamodbav:"keywords_matched,omitempty"`
	ArchivedAt      string `json:"archived_at" dynamodbav:"archived_at"`
}
