package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/infra/catalog"
)

// fetchProductTool gathers the product bundle: catalog entry plus
// synthesized retailer offers and the derived pricing, availability and
// rating aggregates.
type fetchProductTool struct {
	cat *catalog.Catalog
	now func() time.Time
}

func (t *fetchProductTool) Name() string { return "fetch_and_store_product_data" }

func (t *fetchProductTool) Description() string {
	return "Fetch comprehensive product information (specs, retailer pricing, availability, ratings) for an exact catalog product name and store it in the research context."
}

func (t *fetchProductTool) Parameters() map[string]any { return productNameParams() }

func (t *fetchProductTool) Call(_ context.Context, args json.RawMessage, rc *research.Context) (string, error) {
	var in productNameArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return errPayload("invalid arguments: " + err.Error()), nil
	}

	p, ok := t.cat.Product(in.ProductName)
	if !ok {
		// unknown product must leave the context untouched
		return errPayload("Product not found"), nil
	}

	now := t.now()
	offers := make([]research.RetailerOffer, 0, len(t.cat.Retailers()))
	for _, retailer := range t.cat.Retailers() {
		offers = append(offers, t.synthesizeOffer(p.BasePrice, retailer, now))
	}

	bundle := &research.ProductBundle{
		Product: research.ProductDetails{
			Name:           p.Name,
			Brand:          p.Brand,
			Category:       p.Category,
			Description:    p.Description,
			Specifications: p.Specifications,
		},
		Pricing:      pricingSummary(offers),
		Availability: availabilitySummary(offers),
		Ratings:      ratingSummary(p, offers),
		Retailers:    offers,
		Metadata: research.ScrapeMetadata{
			Timestamp:   now.Format(time.RFC3339),
			SearchQuery: in.ProductName,
			DataSources: len(offers),
			SuccessRate: 100.0,
		},
	}

	rc.ProductName = p.Name
	rc.Product = bundle
	return marshal(bundle)
}

// synthesizeOffer derives one retailer listing from the base price and the
// fixed retailer configuration. Deterministic: no randomness anywhere.
func (t *fetchProductTool) synthesizeOffer(basePrice float64, retailer string, now time.Time) research.RetailerOffer {
	defaults := t.cat.Defaults()
	rc, _ := t.cat.RetailerConfig(retailer)

	price := round2(basePrice * defaults.Pricing.BaseVariation)

	discount := defaults.Pricing.DefaultDiscount
	if rc.Discount != nil {
		discount = *rc.Discount
	}
	discounted := price
	var original *float64
	if discount > 0 {
		discounted = round2(price * (1 - discount/100))
		original = &price
	}

	availability := defaults.DefaultAvailability
	if rc.Availability != "" {
		availability = rc.Availability
	}
	shipping := 9.99
	if rc.ShippingCost != nil {
		shipping = *rc.ShippingCost
	}
	promotion := defaults.DefaultPromotion
	if rc.Promotion != "" {
		promotion = rc.Promotion
	}
	rating := defaults.Reviews.DefaultRating
	if rc.Rating != nil {
		rating = *rc.Rating
	}
	reviewCount := defaults.Reviews.DefaultCount
	if rc.ReviewCount != nil {
		reviewCount = *rc.ReviewCount
	}
	url := rc.URLFormat
	if url == "" {
		url = fmt.Sprintf("https://%s.com/product/mock-url", strings.ReplaceAll(strings.ToLower(retailer), " ", ""))
	}

	return research.RetailerOffer{
		Retailer:           retailer,
		Price:              discounted,
		OriginalPrice:      original,
		DiscountPercentage: discount,
		Currency:           "USD",
		Availability:       availability,
		ShippingCost:       shipping,
		EstimatedDelivery:  now.AddDate(0, 0, defaults.Delivery.DefaultDays).Format("2006-01-02"),
		Promotion:          promotion,
		Rating:             rating,
		ReviewCount:        reviewCount,
		URL:                url,
		LastUpdated:        now.Format(time.RFC3339),
	}
}

// pricingSummary aggregates prices over retailers that are not out of stock.
func pricingSummary(offers []research.RetailerOffer) research.PricingSummary {
	var prices []float64
	for _, o := range offers {
		if o.Availability != "Out of Stock" {
			prices = append(prices, o.Price)
		}
	}
	sum := research.PricingSummary{Currency: "USD"}
	if len(prices) == 0 {
		return sum
	}

	min, max, total := prices[0], prices[0], 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		total += p
	}
	avg := round2(total / float64(len(prices)))
	sum.MinPrice = &min
	sum.MaxPrice = &max
	sum.AveragePrice = &avg
	if min > 0 {
		spread := round1((max - min) / min * 100)
		sum.PriceRangePercentage = &spread
	}
	return sum
}

func availabilitySummary(offers []research.RetailerOffer) research.AvailabilitySummary {
	sum := research.AvailabilitySummary{TotalRetailers: len(offers)}
	for _, o := range offers {
		switch o.Availability {
		case "In Stock":
			sum.InStockCount++
		case "Out of Stock":
			sum.OutOfStockCount++
		case "Limited Stock":
			sum.LimitedStockCount++
		}
	}
	return sum
}

func ratingSummary(p *catalog.Product, offers []research.RetailerOffer) research.RatingSummary {
	sum := research.RatingSummary{RatingDistribution: p.RatingDistribution}
	if len(offers) == 0 {
		return sum
	}
	var totalRating float64
	for _, o := range offers {
		totalRating += o.Rating
		sum.TotalReviews += o.ReviewCount
	}
	sum.AverageRating = round1(totalRating / float64(len(offers)))
	return sum
}
