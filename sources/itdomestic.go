// backend/sources/itdomestic.go
package sources

import (
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/certihub/backend/config"
	"github.com/certihub/backend/models"
)

// itDomesticSource collects domestic IT certification schedules
// (네트워크관리사, 리눅스마스터, CSTS...) from the issuing institutes'
// schedule pages. None of these institutes publish an API, so tier 1 is
// an explicit no-op and collection starts at the scrape tier.
type itDomesticSource struct {
	client *http.Client
	cfg    config.SourceConfig
}

func init() {
	Register("it_domestic", func() Source {
		return &itDomesticSource{
			client: newHTTPClient(),
			cfg:    config.AppConfig.Sources["it_domestic"],
		}
	})
}

func (s *itDomesticSource) Name() string { return "it_domestic" }

func (s *itDomesticSource) TryOfficialAPI() []models.RawRecord {
	log.Println("Sources: [it_domestic] No official API exists for these institutes, skipping API tier")
	return nil
}

func (s *itDomesticSource) TryWebScrape() []models.RawRecord {
	if s.cfg.ListPageURL == "" {
		return nil
	}

	doc, err := fetchDocument(s.client, s.cfg.ListPageURL)
	if err != nil {
		log.Printf("WARN Sources: [it_domestic] Scrape error: %v", err)
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

func (s *itDomesticSource) Close() {
	s.client.CloseIdleConnections()
}
