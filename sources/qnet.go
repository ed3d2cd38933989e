// backend/sources/qnet.go
package sources

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/certihub/backend/config"
	"github.com/certihub/backend/models"
)

// qnetSource collects national technical certification schedules
// (정보처리기사 and friends). Tier 1 is the data.go.kr open API, tier 2
// scrapes the Q-Net schedule tables.
type qnetSource struct {
	client *http.Client
	cfg    config.SourceConfig
	year   int
}

func init() {
	Register("qnet", func() Source {
		return &qnetSource{
			client: newHTTPClient(),
			cfg:    config.AppConfig.Sources["qnet"],
			year:   time.Now().Year(),
		}
	})
}

func (s *qnetSource) Name() string { return "qnet" }

type qnetAPIResponse struct {
	Body struct {
		Items []struct {
			JmNm          string `json:"jmNm"`          // certificate name
			ImplSeq       int    `json:"implSeq"`       // round number
			DocRegStartDt string `json:"docRegStartDt"` // registration start
			DocRegEndDt   string `json:"docRegEndDt"`   // registration end
			DocExamStart  string `json:"docExamStartDt"`
			DocPassDt     string `json:"docPassDt"` // result announcement
		} `json:"items"`
	} `json:"body"`
}

func (s *qnetSource) TryOfficialAPI() []models.RawRecord {
	if s.cfg.APIKey == "" {
		log.Println("Sources: [qnet] No API key configured, skipping API tier")
		return nil
	}
	if s.cfg.APIURL == "" {
		return nil
	}

	apiURL := fmt.Sprintf("%s?serviceKey=%s&numOfRows=200&pageNo=1&dataFormat=json&implYy=%d",
		s.cfg.APIURL, url.QueryEscape(s.cfg.APIKey), s.year)

	var resp qnetAPIResponse
	if err := fetchJSON(s.client, apiURL, &resp); err != nil {
		log.Printf("WARN Sources: [qnet] API error: %v", err)
		return nil
	}

	var records []models.RawRecord
	for _, item := range resp.Body.Items {
		name := strings.TrimSpace(item.JmNm)
		if name == "" {
			continue
		}
		round := item.ImplSeq
		if round < 1 {
			round = 1
		}
		records = append(records, models.RawRecord{
			CertName:   normalizeQnetName(name),
			Round:      round,
			RegStart:   item.DocRegStartDt,
			RegEnd:     item.DocRegEndDt,
			ExamDate:   item.DocExamStart,
			ResultDate: item.DocPassDt,
		})
	}
	return records
}

func (s *qnetSource) TryWebScrape() []models.RawRecord {
	if s.cfg.ListPageURL == "" {
		return nil
	}

	pageURL := fmt.Sprintf("%s&year=%d", s.cfg.ListPageURL, s.year)
	doc, err := fetchDocument(s.client, pageURL)
	if err != nil {
		log.Printf("WARN Sources: [qnet] Scrape error: %v", err)
		return nil
	}

	rowSelector := s.cfg.RowSelector
	if rowSelector == "" {
		rowSelector = "table tbody tr"
	}

	var records []models.RawRecord
	doc.Find(rowSelector).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		texts := make([]string, cells.Length())
		cells.Each(func(j int, cell *goquery.Selection) {
			texts[j] = strings.TrimSpace(cell.Text())
		})
		if texts[0] == "" {
			return
		}

		regStart, regEnd := splitDateRange(texts[1])
		records = append(records, models.RawRecord{
			CertName:   normalizeQnetName(texts[0]),
			Round:      extractRound(texts[0]),
			RegStart:   regStart,
			RegEnd:     regEnd,
			ExamDate:   texts[2],
			ResultDate: texts[3],
		})
	})
	return records
}

func (s *qnetSource) Close() {
	s.client.CloseIdleConnections()
}

// qnetNameMap aligns API spellings with the seeded name_ko values.
var qnetNameMap = map[string]string{
	"컴퓨터활용능력1급": "컴퓨터활용능력 1급",
	"컴퓨터활용능력2급": "컴퓨터활용능력 2급",
}

func normalizeQnetName(name string) string {
	if mapped, ok := qnetNameMap[name]; ok {
		return mapped
	}
	return name
}

var roundPattern = regexp.MustCompile(`(\d+)\s*회`)
var digitPattern = regexp.MustCompile(`(\d+)`)

// extractRound pulls a round number out of free text like "정보처리기사 1회".
// Defaults to 1 when no number is present.
func extractRound(text string) int {
	if m := roundPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := digitPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 1
}

// splitDateRange splits "2026-01-13 ~ 2026-01-16" into its endpoints.
// A single date is used for both ends.
func splitDateRange(text string) (string, string) {
	if strings.Contains(text, "~") {
		parts := strings.SplitN(text, "~", 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed
}
