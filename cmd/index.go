package main

import (
	"context"
	"strings"

	"github.com/sells-group/suburb-cli/internal/config"
	"github.com/sells-group/suburb-cli/internal/fetcher"
	"github.com/sells-group/suburb-cli/internal/geo"
)

// loaderOptions maps the dataset config onto geo.LoaderOptions.
func loaderOptions(c *config.Config) geo.LoaderOptions {
	return geo.LoaderOptions{
		Source:  c.Dataset.Source(),
		Format:  geo.Format(strings.ToLower(c.Dataset.Format)),
		Sheet:   c.Dataset.Sheet,
		TempDir: c.Dataset.TempDir,
		Fetch:   fetchOptions(c),
	}
}

func fetchOptions(c *config.Config) fetcher.Options {
	return fetcher.Options{
		UserAgent:  c.Dataset.UserAgent,
		Timeout:    c.Dataset.Timeout(),
		MaxRetries: c.Dataset.MaxRetries,
	}
}

// newSearcher builds a searcher from the search config.
func newSearcher(c *config.Config) *geo.Searcher {
	return geo.NewSearcher(
		geo.WithBands(geo.NewBands(c.Search.NearbyKM, c.Search.FringeKM)),
		geo.WithScanCap(c.Search.ScanCap),
		geo.WithLimit(c.Search.MaxResults),
	)
}

// loadIndex loads the dataset and indexes it, failing on any load error.
func loadIndex(ctx context.Context, c *config.Config) (*geo.Index, geo.LoadStats, error) {
	records, stats, err := geo.NewLoader(loaderOptions(c)).Load(ctx)
	if err != nil {
		return nil, stats, err
	}
	return geo.BuildIndex(records), stats, nil
}

// loadIndexOrEmpty is loadIndex for the interactive session: a load failure
// is logged and the index is empty.
func loadIndexOrEmpty(ctx context.Context, c *config.Config) (*geo.Index, geo.LoadStats) {
	records, stats := geo.LoadLocalities(ctx, loaderOptions(c))
	return geo.BuildIndex(records), stats
}
