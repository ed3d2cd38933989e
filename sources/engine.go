// backend/sources/engine.go
package sources

import (
	"log"

	"github.com/certihub/backend/cache"
	"github.com/certihub/backend/models"
)

// FetchWithFallback drives one source through the tiered acquisition
// strategy and returns the collected records with the method that won:
//
//	tier 1: official API  (method "api")
//	tier 2: web scraping  (method "scraping")
//	tier 3: cache snapshot (method "cache")
//
// A live-tier success overwrites the source's cache snapshot. The cache
// tier returns the snapshot verbatim and does not rewrite it; it is an
// echo of the last known good state, not a new measurement. Each tier is
// attempted at most once; when all three come up empty the method is
// "failed" with an empty result.
func FetchWithFallback(src Source, snapshots *cache.Store) ([]models.RawRecord, string) {
	name := src.Name()

	log.Printf("Sources: [%s] Tier 1: trying official API...\n", name)
	records := src.TryOfficialAPI()
	if len(records) > 0 {
		log.Printf("Sources: [%s] Tier 1 succeeded: %d records from API\n", name, len(records))
		snapshots.Save(name, records)
		return records, models.MethodAPI
	}
	log.Printf("Sources: [%s] Tier 1 returned no data\n", name)

	log.Printf("Sources: [%s] Tier 2: trying web scraping...\n", name)
	records = src.TryWebScrape()
	if len(records) > 0 {
		log.Printf("Sources: [%s] Tier 2 succeeded: %d records from scraping\n", name, len(records))
		snapshots.Save(name, records)
		return records, models.MethodScraping
	}
	log.Printf("Sources: [%s] Tier 2 returned no data\n", name)

	log.Printf("Sources: [%s] Tier 3: loading cache snapshot...\n", name)
	records = snapshots.Load(name)
	if len(records) > 0 {
		log.Printf("Sources: [%s] Tier 3 succeeded: %d records from cache\n", name, len(records))
		return records, models.MethodCache
	}

	log.Printf("ERROR Sources: [%s] All acquisition tiers failed, no data\n", name)
	return nil, models.MethodFailed
}
