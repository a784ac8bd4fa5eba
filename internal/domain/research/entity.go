package research

// Review is a single customer review with its pre-labelled sentiment.
type Review struct {
	Reviewer  string  `json:"reviewer,omitempty"`
	Rating    float64 `json:"rating"`
	Sentiment string  `json:"sentiment"`
	Title     string  `json:"title,omitempty"`
	Text      string  `json:"text,omitempty"`
	Date      string  `json:"date,omitempty"`
	Verified  bool    `json:"verified_purchase,omitempty"`
}

// SentimentAnalysis aggregates review sentiment labels.
type SentimentAnalysis struct {
	TotalReviews     int                `json:"total_reviews"`
	Summary          map[string]int     `json:"sentiment_summary"`
	Percentages      map[string]float64 `json:"sentiment_percentages"`
	AverageRating    float64            `json:"average_rating"`
	OverallSentiment string             `json:"overall_sentiment"`
	ConfidenceScore  float64            `json:"confidence_score"`
}

// MarketMetrics are the current index values for a product's market.
type MarketMetrics struct {
	SearchVolume     int     `json:"search_volume"`
	PriceIndex       float64 `json:"price_index"`
	CompetitionIndex float64 `json:"competition_index"`
}

// TrendChanges are the period-over-period market deltas.
type TrendChanges struct {
	MonthlySearchChangePercent float64 `json:"monthly_search_change_percent"`
	MonthlyPriceChangePercent  float64 `json:"monthly_price_change_percent"`
	SixMonthGrowthPercent      float64 `json:"six_month_growth_percent"`
}

// MarketTrends is one product's market entry.
type MarketTrends struct {
	Category        string        `json:"category"`
	MarketSentiment string        `json:"market_sentiment"`
	CurrentMetrics  MarketMetrics `json:"current_metrics"`
	TrendChanges    TrendChanges  `json:"trend_changes"`
	Insights        []string      `json:"insights"`
}

// RetailerOffer is one retailer's synthesized listing for a product.
type RetailerOffer struct {
	Retailer           string   `json:"retailer"`
	Price              float64  `json:"price"`
	OriginalPrice      *float64 `json:"original_price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Currency           string   `json:"currency"`
	Availability       string   `json:"availability"`
	ShippingCost       float64  `json:"shipping_cost"`
	EstimatedDelivery  string   `json:"estimated_delivery"`
	Promotion          string   `json:"promotion,omitempty"`
	Rating             float64  `json:"rating"`
	ReviewCount        int      `json:"review_count"`
	URL                string   `json:"url"`
	LastUpdated        string   `json:"last_updated"`
}

// ProductDetails is the catalog entry carried into the bundle.
type ProductDetails struct {
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
}

// PricingSummary aggregates prices across in-stock retailers only.
type PricingSummary struct {
	MinPrice             *float64 `json:"min_price"`
	MaxPrice             *float64 `json:"max_price"`
	AveragePrice         *float64 `json:"average_price"`
	Currency             string   `json:"currency"`
	PriceRangePercentage *float64 `json:"price_range_percentage"`
}

// AvailabilitySummary counts retailer stock states.
type AvailabilitySummary struct {
	TotalRetailers    int `json:"total_retailers"`
	InStockCount      int `json:"in_stock_count"`
	OutOfStockCount   int `json:"out_of_stock_count"`
	LimitedStockCount int `json:"limited_stock_count"`
}

// RatingSummary aggregates retailer ratings and review volume.
type RatingSummary struct {
	AverageRating      float64        `json:"average_rating"`
	TotalReviews       int            `json:"total_reviews"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

// ScrapeMetadata describes how the bundle was assembled.
type ScrapeMetadata struct {
	Timestamp   string  `json:"timestamp"`
	SearchQuery string  `json:"search_query"`
	DataSources int     `json:"data_sources"`
	SuccessRate float64 `json:"success_rate"`
}

// ProductBundle is the full product payload delivered by the fetch tool.
type ProductBundle struct {
	Product      ProductDetails      `json:"product_info"`
	Pricing      PricingSummary      `json:"pricing_data"`
	Availability AvailabilitySummary `json:"availability_summary"`
	Ratings      RatingSummary       `json:"rating_summary"`
	Retailers    []RetailerOffer     `json:"retailers"`
	Metadata     ScrapeMetadata      `json:"scraping_metadata"`
}
