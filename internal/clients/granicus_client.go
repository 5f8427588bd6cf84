package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// GRANICUS_VIEW_ID is the default archive view for the supervisors'
// meeting listing; other boards use their own view ids.
const GRANICUS_VIEW_ID = 10

var (
	granicusClientInstance *GranicusClient
	granicusClientOnce     sync.Once

	granicusDatePattern = regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4}`)
)

type GranicusClient struct {
	Client *http.Client
}

// GranicusMeeting is one archive listing row that links caption notes.
type GranicusMeeting struct {
	Board string
	Date  string
	URL   string
}

func GetGranicusClient() *GranicusClient {
	granicusClientOnce.Do(func() {
		granicusClientInstance = &GranicusClient{
			Client: &http.Client{Timeout: 60 * time.Second},
		}
	})
	return granicusClientInstance
}

// ListMeetings scrapes the archive listing for rows that link a
// transcript or minutes viewer page.
func (gc *GranicusClient) ListMeetings(ctx context.Context, host string, viewID int) ([]GranicusMeeting, error) {
	listURL := fmt.Sprintf("https://%s/ViewPublisher.php?view_id=%d", host, viewID)
	doc, err := gc.fetchDocument(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var meetings []GranicusMeeting
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`a[href*="TranscriptViewer.php"], a[href*="MinutesViewer.php"], a[href*="AgendaViewer.php"]`).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		if strings.HasPrefix(href, "//") {
			href = "https:" + href
		} else if strings.HasPrefix(href, "/") {
			href = "https://" + host + href
		}

		board := strings.TrimSpace(row.Find("td").First().Text())
		date := granicusDatePattern.FindString(row.Text())
		if board == "" || date == "" {
			return
		}

		meetings = append(meetings, GranicusMeeting{
			Board: board,
			Date:  date,
			URL:   href,
		})
	})

	slog.Info("[GranicusClient] Parsed archive listing",
		slog.String("host", host),
		slog.Int("view_id", viewID),
		slog.Int("meetings", len(meetings)))
	return meetings, nil
}

// FetchNotes loads a viewer page and returns its visible text with the
// header table removed, one trimmed line per row.
func (gc *GranicusClient) FetchNotes(ctx context.Context, pageURL string) (string, error) {
	doc, err := gc.fetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}

	doc.Find("table").First().Remove()

	raw := doc.Find("body").Text()
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (gc *GranicusClient) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := gc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[GranicusClient] Request failed for %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("[GranicusClient] Unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[GranicusClient] Failed to parse %s: %w", pageURL, err)
	}
	return doc, nil
}
