// backend/sources/kdata.go
package sources

import (
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/certihub/backend/config"
	"github.com/certihub/backend/models"
)

// kdataSource collects data-certification schedules (SQLD, ADsP, DAP...)
// from the KData exam portal. Tier 1 is the portal's schedule JSON
// endpoint, tier 2 scrapes the public schedule page.
type kdataSource struct {
	client *http.Client
	cfg    config.SourceConfig
}

func init() {
	Register("kdata", func() Source {
		return &kdataSource{
			client: newHTTPClient(),
			cfg:    config.AppConfig.Sources["kdata"],
		}
	})
}

func (s *kdataSource) Name() string { return "kdata" }

type kdataAPIResponse struct {
	List []struct {
		ExamName   string `json:"examName"`
		Round      int    `json:"round"`
		RegStartDt string `json:"regStartDt"`
		RegEndDt   string `json:"regEndDt"`
		ExamDt     string `json:"examDt"`
		PassDt     string `json:"passDt"`
	} `json:"list"`
}

func (s *kdataSource) TryOfficialAPI() []models.RawRecord {
	if s.cfg.APIURL == "" {
		return nil
	}

	var resp kdataAPIResponse
	if err := fetchJSON(s.client, s.cfg.APIURL, &resp); err != nil {
		log.Printf("WARN Sources: [kdata] API error: %v", err)
		return nil
	}

	var records []models.RawRecord
	for _, item := range resp.List {
		name := strings.TrimSpace(item.ExamName)
		if name == "" {
			continue
		}
		round := item.Round
		if round < 1 {
			round = 1
		}
		records = append(records, models.RawRecord{
			CertName:   name,
			Round:      round,
			RegStart:   item.RegStartDt,
			RegEnd:     item.RegEndDt,
			ExamDate:   item.ExamDt,
			ResultDate: item.PassDt,
		})
	}
	return records
}

func (s *kdataSource) TryWebScrape() []models.RawRecord {
	if s.cfg.ListPageURL == "" {
		return nil
	}

	doc, err := fetchDocument(s.client, s.cfg.ListPageURL)
	if err != nil {
		log.Printf("WARN Sources: [kdata] Scrape error: %v", err)
		return nil
	}

	rowSelector := s.cfg.RowSelector
	if rowSelector == "" {
		rowSelector = "table tbody tr"
	}

	var records []models.RawRecord
	doc.Find(rowSelector).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		// name, round, registration period, exam date, result date
		if cells.Length() < 5 {
			return
		}
		texts := make([]string, cells.Length())
		cells.Each(func(j int, cell *goquery.Selection) {
			texts[j] = strings.TrimSpace(cell.Text())
		})
		if texts[0] == "" {
			return
		}

		regStart, regEnd := splitDateRange(texts[2])
		records = append(records, models.RawRecord{
			CertName:   texts[0],
			Round:      extractRound(texts[1]),
			RegStart:   regStart,
			RegEnd:     regEnd,
			ExamDate:   texts[3],
			ResultDate: texts[4],
		})
	})
	return records
}

func (s *kdataSource) Close() {
	s.client.CloseIdleConnections()
}
