package affiliates

import (
	"net/url"

	"github.com/orderof/catalog/pkg/models"
	"github.com/pkg/errors"
)

// ErrUnsupportedMarketplace is returned when there's no search page for a
// platform and region.
var ErrUnsupportedMarketplace = errors.New("unsupported marketplace")

type marketplace struct {
	platform string
	region   string
}

var defaultTags = map[marketplace]string{
	{models.PlatformAmazon, models.RegionUK}: "orderof-21",
	{models.PlatformAmazon, models.RegionUS}: "orderof-20",
}

var searchPages = map[marketplace]string{
	{models.PlatformAmazon, models.RegionUK}: "https://www.amazon.co.uk/s",
	{models.PlatformAmazon, models.RegionUS}: "https://www.amazon.com/s",
}

// Currencies are the currencies generated links are priced in, by region.
var Currencies = map[string]string{
	models.RegionUK: "GBP",
	models.RegionUS: "USD",
}

// GeneratedRegions are the regions bulk generation creates a link for, in
// creation order.
var GeneratedRegions = []string{models.RegionUK, models.RegionUS}

// DefaultTag returns the affiliate tag for a platform and region. Unknown
// combinations have none.
func DefaultTag(platform, region string) (string, bool) {
	tag, ok := defaultTags[marketplace{platform, region}]
	return tag, ok
}

// SearchURL builds a marketplace search URL for title. An empty tag falls
// back to the default one for the platform and region.
func SearchURL(platform, region, title, tag string) (string, error) {
	page, ok := searchPages[marketplace{platform, region}]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedMarketplace, "%s/%s", platform, region)
	}
	if tag == "" {
		tag, _ = DefaultTag(platform, region)
	}

	// QueryEscape turns spaces into "+".
	u := page + "?k=" + url.QueryEscape(title)
	if tag != "" {
		u += "&tag=" + url.QueryEscape(tag)
	}
	return u, nil
}
