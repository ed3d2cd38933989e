// backend/sources/cloud.go
package sources

import (
	"log"
	"net/http"
	"strings"

	"github.com/certihub/backend/config"
	"github.com/certihub/backend/models"
)

// cloudCert is one vendor certification to track. Cloud certifications
// are always-open (no exam rounds), so the records carry round 0 and the
// pipeline updates certificate metadata instead of schedule rows.
type cloudCert struct {
	Keyword string
	Vendor  string
	WebURL  string
}

var cloudCerts = []cloudCert{
	// AWS
	{"AWS SAA", "AWS", "https://aws.amazon.com/certification/certified-solutions-architect-associate/"},
	{"AWS DVA", "AWS", "https://aws.amazon.com/certification/certified-developer-associate/"},
	{"AWS SAP", "AWS", "https://aws.amazon.com/certification/certified-solutions-architect-professional/"},
	{"AWS CLF", "AWS", "https://aws.amazon.com/certification/certified-cloud-practitioner/"},
	// GCP
	{"GCP ACE", "GCP", "https://cloud.google.com/learn/certification/cloud-engineer"},
	{"GCP PCA", "GCP", "https://cloud.google.com/learn/certification/cloud-architect"},
	{"GCP PDE", "GCP", "https://cloud.google.com/learn/certification/data-engineer"},
	{"GCP PCSE", "GCP", "https://cloud.google.com/learn/certification/cloud-security-engineer"},
	// Azure
	{"AZ-900", "Azure", "https://learn.microsoft.com/ko-kr/certifications/azure-fundamentals/"},
	{"AZ-104", "Azure", "https://learn.microsoft.com/ko-kr/certifications/azure-administrator/"},
	{"AZ-305", "Azure", "https://learn.microsoft.com/ko-kr/certifications/azure-solutions-architect/"},
	{"AZ-204", "Azure", "https://learn.microsoft.com/ko-kr/certifications/azure-developer/"},
}

// cloudSource tracks AWS/GCP/Azure certifications. Tier 1 queries the
// AWS certification directory API; tier 2 probes each vendor's official
// page for liveness and carries the URL forward.
type cloudSource struct {
	client *http.Client
	cfg    config.SourceConfig
}

func init() {
	Register("cloud", func() Source {
		return &cloudSource{
			client: newHTTPClient(),
			cfg:    config.AppConfig.Sources["cloud"],
		}
	})
}

func (s *cloudSource) Name() string { return "cloud" }

type awsDirectoryResponse struct {
	Items []struct {
		Item struct {
			AdditionalFields struct {
				Title            string `json:"title"`
				CertificationURL string `json:"certificationUrl"`
			} `json:"additionalFields"`
		} `json:"item"`
	} `json:"items"`
}

func (s *cloudSource) TryOfficialAPI() []models.RawRecord {
	if s.cfg.APIURL == "" {
		return nil
	}

	var resp awsDirectoryResponse
	if err := fetchJSON(s.client, s.cfg.APIURL, &resp); err != nil {
		log.Printf("WARN Sources: [cloud] AWS directory API error: %v", err)
		return nil
	}

	var records []models.RawRecord
	for _, item := range resp.Items {
		fields := item.Item.AdditionalFields
		name := strings.TrimSpace(fields.Title)
		if name == "" {
			continue
		}
		records = append(records, models.RawRecord{
			CertName:    name,
			Round:       models.AlwaysOpenRound,
			Status:      "active",
			OfficialURL: fields.CertificationURL,
		})
	}
	return records
}

func (s *cloudSource) TryWebScrape() []models.RawRecord {
	return probeCertPages(s.client, "cloud", cloudCerts)
}

func (s *cloudSource) Close() {
	s.client.CloseIdleConnections()
}

// probeCertPages turns URL liveness checks into always-open records:
// a page answering below 400 yields status "active", an error status
// "inactive", a failed connection "error". The record set is returned
// even when every probe fails: a dead page is still a measurement.
func probeCertPages(client *http.Client, source string, certs []cloudCert) []models.RawRecord {
	var records []models.RawRecord
	for _, cert := range certs {
		alive, err := probeURL(client, cert.WebURL)
		status := "active"
		if err != nil {
			status = "error"
			log.Printf("WARN Sources: [%s] %s: probe failed (%v)", source, cert.Keyword, err)
		} else if !alive {
			status = "inactive"
			log.Printf("Sources: [%s] %s: page answered with an error status\n", source, cert.Keyword)
		}
		records = append(records, models.RawRecord{
			CertName:    cert.Keyword,
			Round:       models.AlwaysOpenRound,
			Status:      status,
			OfficialURL: cert.WebURL,
		})
	}
	return records
}
