package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ecomlabs/research-agent/internal/domain/research"
)

//go:embed data/*.json
var dataFS embed.FS

// Product is one catalog entry.
type Product struct {
	Name               string            `json:"name"`
	Brand              string            `json:"brand"`
	Category           string            `json:"category"`
	Description        string            `json:"description"`
	BasePrice          float64           `json:"base_price"`
	Specifications     map[string]string `json:"specifications"`
	RatingDistribution map[string]int    `json:"rating_distribution"`
}

// RetailerConfig holds the fixed per-retailer values used for price
// synthesis. Nil fields fall back to the market defaults.
type RetailerConfig struct {
	Discount     *float64 `json:"discount"`
	Availability string   `json:"availability"`
	ShippingCost *float64 `json:"shipping_cost"`
	Promotion    string   `json:"promotion"`
	Rating       *float64 `json:"rating"`
	ReviewCount  *int     `json:"review_count"`
	URLFormat    string   `json:"url_format"`
}

// MarketDefaults are the documented fallback values for retailer synthesis.
type MarketDefaults struct {
	Pricing struct {
		BaseVariation   float64 `json:"base_variation"`
		DefaultDiscount float64 `json:"default_discount"`
	} `json:"pricing"`
	DefaultAvailability string `json:"default_availability"`
	DefaultPromotion    string `json:"default_promotion"`
	Reviews             struct {
		DefaultRating float64 `json:"default_rating"`
		DefaultCount  int     `json:"default_count"`
	} `json:"reviews"`
	Delivery struct {
		DefaultDays int `json:"default_days"`
	} `json:"delivery"`
}

// Catalog is the in-memory view over the embedded mock datasets.
type Catalog struct {
	products       []Product
	byName         map[string]*Product
	reviews        map[string][]research.Review
	trends         map[string]research.MarketTrends
	retailers      []string
	retailerConfig map[string]RetailerConfig
	defaults       MarketDefaults
}

// Load parses all embedded datasets once at startup.
func Load() (*Catalog, error) {
	c := &Catalog{
		byName:         make(map[string]*Product),
		reviews:        make(map[string][]research.Review),
		trends:         make(map[string]research.MarketTrends),
		retailerConfig: make(map[string]RetailerConfig),
	}

	if err := readJSON("data/products.json", &c.products); err != nil {
		return nil, err
	}
	for i := range c.products {
		c.byName[c.products[i].Name] = &c.products[i]
	}
	if err := readJSON("data/reviews.json", &c.reviews); err != nil {
		return nil, err
	}
	if err := readJSON("data/market_trends.json", &c.trends); err != nil {
		return nil, err
	}
	if err := readJSON("data/retailers.json", &c.retailers); err != nil {
		return nil, err
	}
	if err := readJSON("data/retailer_config.json", &c.retailerConfig); err != nil {
		return nil, err
	}
	if err := readJSON("data/market_data.json", &c.defaults); err != nil {
		return nil, err
	}
	return c, nil
}

func readJSON(name string, out any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read dataset %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse dataset %s: %w", name, err)
	}
	return nil
}

// Names returns all product names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.products))
	for i, p := range c.products {
		names[i] = p.Name
	}
	return names
}

// Product looks up a catalog entry by exact name.
func (c *Catalog) Product(name string) (*Product, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Reviews returns the review list for a product, if any are on file.
func (c *Catalog) Reviews(name string) ([]research.Review, bool) {
	r, ok := c.reviews[name]
	return r, ok
}

// Trends returns the market entry for a product.
func (c *Catalog) Trends(name string) (research.MarketTrends, bool) {
	t, ok := c.trends[name]
	return t, ok
}

// Retailers returns the configured retailer names.
func (c *Catalog) Retailers() []string { return c.retailers }

// RetailerConfig returns the per-retailer synthesis config.
func (c *Catalog) RetailerConfig(name string) (RetailerConfig, bool) {
	rc, ok := c.retailerConfig[name]
	return rc, ok
}

// Defaults returns the market defaults used when retailer config is silent.
func (c *Catalog) Defaults() MarketDefaults { return c.defaults }
