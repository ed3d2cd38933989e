// backend/sources/intlcert.go
package sources

import (
	"log"
	"net/http"

	"github.com/certihub/backend/models"
)

var intlCerts = []cloudCert{
	// Security
	{"CISSP", "ISC2", "https://www.isc2.org/certifications/cissp"},
	{"CCSP", "ISC2", "https://www.isc2.org/certifications/ccsp"},
	{"SSCP", "ISC2", "https://www.isc2.org/certifications/sscp"},
	{"CISA", "ISACA", "https://www.isaca.org/credentialing/cisa"},
	// Network
	{"CCNA", "Cisco", "https://www.cisco.com/site/us/en/learn/training-certifications/certifications/associate/ccna/index.html"},
	{"CCNP", "Cisco", "https://www.cisco.com/site/us/en/learn/training-certifications/certifications/professional/ccnp-enterprise/index.html"},
	// Oracle / Red Hat / Linux
	{"OCP", "Oracle", "https://education.oracle.com"},
	{"RHCSA", "Red Hat", "https://www.redhat.com/en/services/certification/rhcsa"},
	{"RHCE", "Red Hat", "https://www.redhat.com/en/services/certification/rhce"},
	{"LPIC Level 1", "LPI", "https://www.lpi.org/our-certifications/lpic-1-overview/"},
	// Project management
	{"PMP", "PMI", "https://www.pmi.org/certifications/project-management-pmp"},
	{"CAPM", "PMI", "https://www.pmi.org/certifications/capm-certified-associate"},
	{"ITIL", "Axelos", "https://www.axelos.com/certifications/itil-service-management/itil-4-foundation"},
	// Finance
	{"FRM", "GARP", "https://www.garp.org/frm"},
	{"CAMS", "ACAMS", "https://www.acams.org/en/certifications"},
}

// intlCertSource tracks international CBT certifications. These are all
// always-open with no published schedule API, so the API tier is a no-op
// and the scrape tier is URL liveness probing, like the cloud source.
type intlCertSource struct {
	client *http.Client
}

func init() {
	Register("intl", func() Source {
		return &intlCertSource{client: newHTTPClient()}
	})
}

func (s *intlCertSource) Name() string { return "intl" }

func (s *intlCertSource) TryOfficialAPI() []models.RawRecord {
	log.Println("Sources: [intl] No vendor API available, skipping API tier")
	return nil
}

func (s *intlCertSource) TryWebScrape() []models.RawRecord {
	return probeCertPages(s.client, "intl", intlCerts)
}

func (s *intlCertSource) Close() {
	s.client.CloseIdleConnections()
}
