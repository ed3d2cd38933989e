// backend/sources/finance.go
package sources

import (
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/certihub/backend/config"
	"github.com/certihub/backend/models"
)

// financeSource collects financial certification schedules (투자자산운용사,
// 신용분석사, AFPK...). Tier 1 is the KOFIA license portal's AJAX JSON,
// tier 2 scrapes the schedule board.
type financeSource struct {
	client *http.Client
	cfg    config.SourceConfig
}

func init() {
	Register("finance", func() Source {
		return &financeSource{
			client: newHTTPClient(),
			cfg:    config.AppConfig.Sources["finance"],
		}
	})
}

func (s *financeSource) Name() string { return "finance" }

type financeAPIResponse struct {
	ExamList []struct {
		ExamNm    string `json:"examNm"`
		ExamSeq   int    `json:"examSeq"`
		RcptBgnDt string `json:"rcptBgnDt"`
		RcptEndDt string `json:"rcptEndDt"`
		ExamDt    string `json:"examDt"`
		PsexpDt   string `json:"psexpDt"` // pass announcement
	} `json:"examList"`
}

func (s *financeSource) TryOfficialAPI() []models.RawRecord {
	if s.cfg.APIURL == "" {
		return nil
	}

	var resp financeAPIResponse
	if err := fetchJSON(s.client, s.cfg.APIURL, &resp); err != nil {
		log.Printf("WARN Sources: [finance] API error: %v", err)
		return nil
	}

	var records []models.RawRecord
	for _, item := range resp.ExamList {
		name := strings.TrimSpace(item.ExamNm)
		if name == "" {
			continue
		}
		round := item.ExamSeq
		if round < 1 {
			round = 1
		}
		records = append(records, models.RawRecord{
			CertName:   name,
			Round:      round,
			RegStart:   item.RcptBgnDt,
			RegEnd:     item.RcptEndDt,
			ExamDate:   item.ExamDt,
			ResultDate: item.PsexpDt,
		})
	}
	return records
}

func (s *financeSource) TryWebScrape() []models.RawRecord {
	if s.cfg.ListPageURL == "" {
		return nil
	}

	doc, err := fetchDocument(s.client, s.cfg.ListPageURL)
	if err != nil {
		log.Printf("WARN Sources: [finance] Scrape error: %v", err)
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
			CertName:   texts[0],
			Round:      extractRound(texts[0]),
			RegStart:   regStart,
			RegEnd:     regEnd,
			ExamDate:   texts[2],
			ResultDate: texts[3],
		})
	})
	return records
}

func (s *financeSource) Close() {
	s.client.CloseIdleConnections()
}
