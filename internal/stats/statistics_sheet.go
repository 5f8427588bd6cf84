package stats

import (
	"github.com/peh-research/civicsift/internal/dataset"
)

// Keys of the Reddit collection statistics sheet. The cross-city
// summary and the re-filter merge read and write these by name.
const (
	StatStartDate               = "Start Date"
	StatEndDate                 = "End Date"
	StatTotalPosts              = "Total Posts"
	StatTotalKeywordPosts       = "Total Keyword Posts"
	StatTotalComments           = "Total Comments"
	StatTotalFilteredComments   = "Total Filtered Comments"
	StatAvgCommentsPerPost      = "Average Comments per Post"
	StatAvgCommentScore         = "Average Comment Score"
	StatAvgFilteredCommentScore = "Average Filtered Comment Score"
	StatAvgFilteredPerPost      = "Average Filtered Comments per Post"
	StatPctCommentsFiltered     = "Percentage of Comments Filtered"
	StatPctPostsWithKeywords    = "Percentage of Posts with Keywords"
)

// StatisticRow is one Statistic/Value pair of a statistics.csv sheet.
type StatisticRow struct {
	Statistic string `csv:"Statistic"`
	Value     string `csv:"Value"`
}

// ReadStatistics loads a Statistic/Value sheet into a lookup map plus
// the original key order. A missing file yields empty results.
func ReadStatistics(path string) (map[string]string, []string, error) {
	values := make(map[string]string)
	var order []string
	if !dataset.FileExists(path) {
		return values, order, nil
	}
	rows, err := dataset.ReadCSV[StatisticRow](path)
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		if _, ok := values[row.Statistic]; !ok {
			order = append(order, row.Statistic)
		}
		values[row.Statistic] = row.Value
	}
	return values, order, nil
}

// WriteStatistics writes a Statistic/Value sheet in the given key order.
func WriteStatistics(path string, values map[string]string, order []string) error {
	rows := make([]StatisticRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, StatisticRow{Statistic: key, Value: values[key]})
	}
	return dataset.WriteCSV(path, rows)
}

// MergeStatistics updates (or appends, in updateOrder) the given keys
// on an existing sheet, leaving unrelated keys untouched.
func MergeStatistics(path string, updates map[string]string, updateOrder []string) error {
	values, order, err := ReadStatistics(path)
	if err != nil {
		return err
	}
	for _, key := range updateOrder {
		if _, ok := values[key]; !ok {
			order = append(order, key)
		}
		values[key] = updates[key]
	}
	return WriteStatistics(path, values, order)
}
