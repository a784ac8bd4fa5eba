package report

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ecomlabs/research-agent/internal/domain/research"
)

// Generator renders the final analysis report in two formats (markdown and
// styled HTML) and hands both to the artifact store. Missing upstream data
// degrades the matching section to a placeholder; generation itself never
// fails on absent data.
type Generator struct {
	Store research.ArtifactStore
	Now   func() time.Time
}

func NewGenerator(store research.ArtifactStore) *Generator {
	return &Generator{Store: store, Now: time.Now}
}

// Generate writes both renderings and returns the HTML artifact location.
func (g *Generator) Generate(ctx context.Context, rc *research.Context) (string, error) {
	name := "Unknown Product"
	if rc.Product != nil && rc.Product.Product.Name != "" {
		name = rc.Product.Product.Name
	} else if rc.ProductName != "" {
		name = rc.ProductName
	}

	now := g.Now()
	base := fmt.Sprintf("%s_report_%s", strings.ReplaceAll(name, " ", "_"), now.Format("20060102_150405"))

	md := g.renderMarkdown(name, now, rc)
	if _, err := g.Store.Store(ctx, base+".md", "text/markdown", []byte(md)); err != nil {
		return "", fmt.Errorf("store markdown report: %w", err)
	}

	htmlDoc := g.renderHTML(name, now, rc)
	loc, err := g.Store.Store(ctx, base+".html", "text/html", []byte(htmlDoc))
	if err != nil {
		return "", fmt.Errorf("store html report: %w", err)
	}
	return loc, nil
}

const placeholder = "Data not accessible at this time."

func (g *Generator) renderMarkdown(name string, now time.Time, rc *research.Context) string {
	date := now.Format("January 2, 2006")
	var b strings.Builder

	fmt.Fprintf(&b, "# Product Analysis Report: %s\n\n", name)
	fmt.Fprintf(&b, "**Generated on:** %s\n\n---\n\n", date)
	fmt.Fprintf(&b, "## Executive Summary\n\nThis report provides a comprehensive analysis of **%s** including product information, customer sentiment analysis, and market trend insights.\n\n---\n\n", name)

	b.WriteString("## Product Information\n\n")
	if rc.Product != nil {
		p := rc.Product
		fmt.Fprintf(&b, "**Brand:** %s\n\n", p.Product.Brand)
		fmt.Fprintf(&b, "**Category:** %s\n\n", p.Product.Category)
		fmt.Fprintf(&b, "**Description:** %s\n\n", p.Product.Description)
		if p.Pricing.AveragePrice != nil {
			fmt.Fprintf(&b, "**Average Price:** $%.2f (range $%.2f - $%.2f across %d retailers)\n\n",
				*p.Pricing.AveragePrice, deref(p.Pricing.MinPrice), deref(p.Pricing.MaxPrice), p.Availability.TotalRetailers)
		}
		fmt.Fprintf(&b, "**Availability:** %d in stock, %d limited, %d out of stock\n\n",
			p.Availability.InStockCount, p.Availability.LimitedStockCount, p.Availability.OutOfStockCount)
		fmt.Fprintf(&b, "**Average Retailer Rating:** %.1f/5.0 over %d reviews\n\n",
			p.Ratings.AverageRating, p.Ratings.TotalReviews)
	} else {
		fmt.Fprintf(&b, "**Product Information Not Available**\n\n%s Please verify the product name and try again.\n\n", placeholder)
	}
	b.WriteString("---\n\n## Customer Sentiment Analysis\n\n")
	if s := rc.Sentiment; s != nil {
		fmt.Fprintf(&b, "**Total Reviews Analyzed:** %d\n\n", s.TotalReviews)
		fmt.Fprintf(&b, "**Overall Sentiment:** %s\n\n", title(s.OverallSentiment))
		fmt.Fprintf(&b, "**Average Rating:** %.1f/5.0\n\n", s.AverageRating)
		b.WriteString("**Sentiment Breakdown:**\n")
		fmt.Fprintf(&b, "- Positive: %d reviews (%.1f%%)\n", s.Summary["positive"], s.Percentages["positive"])
		fmt.Fprintf(&b, "- Negative: %d reviews (%.1f%%)\n", s.Summary["negative"], s.Percentages["negative"])
		fmt.Fprintf(&b, "- Neutral: %d reviews (%.1f%%)\n\n", s.Summary["neutral"], s.Percentages["neutral"])
		fmt.Fprintf(&b, "**Confidence Score:** %.1f%%\n\n", s.ConfidenceScore)
	} else {
		fmt.Fprintf(&b, "**Data Not Available**\n\n%s\n\n", placeholder)
	}

	b.WriteString("---\n\n## Market Trend Analysis\n\n")
	if t := rc.Trends; t != nil {
		fmt.Fprintf(&b, "**Product Category:** %s\n\n", title(t.Category))
		fmt.Fprintf(&b, "**Market Sentiment:** %s\n\n", title(t.MarketSentiment))
		b.WriteString("**Current Market Metrics:**\n")
		fmt.Fprintf(&b, "- Search Volume Index: %d\n", t.CurrentMetrics.SearchVolume)
		fmt.Fprintf(&b, "- Price Index: %.1f\n", t.CurrentMetrics.PriceIndex)
		fmt.Fprintf(&b, "- Competition Index: %.1f\n\n", t.CurrentMetrics.CompetitionIndex)
		b.WriteString("**Trend Changes:**\n")
		fmt.Fprintf(&b, "- Monthly Search Change: %.1f%%\n", t.TrendChanges.MonthlySearchChangePercent)
		fmt.Fprintf(&b, "- Monthly Price Change: %.1f%%\n", t.TrendChanges.MonthlyPriceChangePercent)
		fmt.Fprintf(&b, "- 6-Month Growth: %.1f%%\n\n", t.TrendChanges.SixMonthGrowthPercent)
		if len(t.Insights) > 0 {
			b.WriteString("**Key Market Insights:**\n")
			for _, in := range t.Insights {
				fmt.Fprintf(&b, "- %s\n", in)
			}
			b.WriteString("\n")
		}
	} else {
		fmt.Fprintf(&b, "**Data Not Available**\n\n%s\n\n", placeholder)
	}

	b.WriteString("---\n\n## Recommendations\n\n")
	for _, rec := range recommendations(rc) {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	fmt.Fprintf(&b, "\n---\n\n## Data Sources\n\n- **Product Information:** Internal product database\n- **Customer Reviews:** Aggregated from multiple retail platforms\n- **Market Trends:** Market analysis database\n\n---\n\n*Report generated automatically on %s*\n", date)

	return b.String()
}

// recommendations derives advice from whatever analysis data is present.
func recommendations(rc *research.Context) []string {
	var recs []string
	if s := rc.Sentiment; s != nil {
		switch s.OverallSentiment {
		case "positive":
			recs = append(recs, "Customer sentiment is favorable; highlight top-rated aspects in marketing material.")
		case "negative":
			recs = append(recs, "Customer sentiment is unfavorable; investigate the most common complaints before scaling promotion.")
		default:
			recs = append(recs, "Customer sentiment is mixed; monitor review trends before major positioning changes.")
		}
	}
	if t := rc.Trends; t != nil {
		if t.TrendChanges.SixMonthGrowthPercent > 0 {
			recs = append(recs, fmt.Sprintf("The %s market shows %.1f%% six-month growth; consider expanding inventory ahead of demand.", t.Category, t.TrendChanges.SixMonthGrowthPercent))
		} else {
			recs = append(recs, fmt.Sprintf("The %s market contracted %.1f%% over six months; favor conservative stock levels.", t.Category, -t.TrendChanges.SixMonthGrowthPercent))
		}
	}
	if rc.Product != nil && rc.Product.Availability.OutOfStockCount > 0 {
		recs = append(recs, "Some retailers are out of stock; supply gaps may be leaving demand unserved.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Insufficient data for specific recommendations. Verify the product name and re-run the analysis.")
	}
	return recs
}

func (g *Generator) renderHTML(name string, now time.Time, rc *research.Context) string {
	date := now.Format("January 2, 2006")
	esc := html.EscapeString
	var b strings.Builder

	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Product Analysis Report: %s</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 1000px; margin: 0 auto; padding: 20px; background-color: #f8f9fa; }
.container { background: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
h2 { color: #34495e; margin-top: 40px; border-left: 4px solid #3498db; padding-left: 15px; }
.meta-info { background: #ecf0f1; padding: 15px; border-radius: 5px; font-weight: bold; }
.section { margin-bottom: 40px; padding: 20px; border: 1px solid #e0e0e0; border-radius: 8px; }
.warning { background: #fff3cd; border: 1px solid #ffeaa7; color: #856404; padding: 15px; border-radius: 5px; }
.metric { display: inline-block; background: #f8f9fa; padding: 8px 12px; margin: 5px; border-radius: 5px; border-left: 3px solid #3498db; }
.positive { border-left-color: #27ae60; }
.negative { border-left-color: #e74c3c; }
.neutral { border-left-color: #f39c12; }
.recommendations { background: #e8f5e8; border: 1px solid #27ae60; border-radius: 8px; padding: 20px; }
.footer { text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #e0e0e0; color: #666; font-style: italic; }
</style>
</head>
<body>
<div class="container">
<h1>Product Analysis Report: %s</h1>
<div class="meta-info">Generated on: %s</div>
<div class="section"><h2>Executive Summary</h2>
<p>This report provides a comprehensive analysis of <strong>%s</strong> including product information, customer sentiment analysis, and market trend insights.</p></div>
`, esc(name), esc(name), date, esc(name))

	b.WriteString(`<div class="section"><h2>Product Information</h2>` + "\n")
	if p := rc.Product; p != nil {
		fmt.Fprintf(&b, `<div class="metric"><strong>Brand:</strong> %s</div>`+"\n", esc(p.Product.Brand))
		fmt.Fprintf(&b, `<div class="metric"><strong>Category:</strong> %s</div>`+"\n", esc(p.Product.Category))
		if p.Pricing.AveragePrice != nil {
			fmt.Fprintf(&b, `<div class="metric"><strong>Average Price:</strong> $%.2f</div>`+"\n", *p.Pricing.AveragePrice)
		}
		fmt.Fprintf(&b, `<div class="metric"><strong>Retailer Rating:</strong> %.1f/5.0</div>`+"\n", p.Ratings.AverageRating)
		fmt.Fprintf(&b, "<p><strong>Description:</strong> %s</p>\n", esc(p.Product.Description))
	} else {
		fmt.Fprintf(&b, `<div class="warning"><strong>Product Information Not Available</strong><br>%s Please verify the product name and try again.</div>`+"\n", placeholder)
	}
	b.WriteString("</div>\n")

	b.WriteString(`<div class="section"><h2>Customer Sentiment Analysis</h2>` + "\n")
	if s := rc.Sentiment; s != nil {
		fmt.Fprintf(&b, `<div class="metric"><strong>Total Reviews Analyzed:</strong> %d</div>`+"\n", s.TotalReviews)
		fmt.Fprintf(&b, `<div class="metric %s"><strong>Overall Sentiment:</strong> %s</div>`+"\n", esc(s.OverallSentiment), esc(title(s.OverallSentiment)))
		fmt.Fprintf(&b, `<div class="metric"><strong>Average Rating:</strong> %.1f/5.0</div>`+"\n", s.AverageRating)
		b.WriteString("<ul>\n")
		fmt.Fprintf(&b, `<li class="positive">Positive: %d reviews (%.1f%%)</li>`+"\n", s.Summary["positive"], s.Percentages["positive"])
		fmt.Fprintf(&b, `<li class="negative">Negative: %d reviews (%.1f%%)</li>`+"\n", s.Summary["negative"], s.Percentages["negative"])
		fmt.Fprintf(&b, `<li class="neutral">Neutral: %d reviews (%.1f%%)</li>`+"\n", s.Summary["neutral"], s.Percentages["neutral"])
		b.WriteString("</ul>\n")
	} else {
		fmt.Fprintf(&b, `<div class="warning"><strong>Data Not Available</strong><br>%s</div>`+"\n", placeholder)
	}
	b.WriteString("</div>\n")

	b.WriteString(`<div class="section"><h2>Market Trend Analysis</h2>` + "\n")
	if t := rc.Trends; t != nil {
		fmt.Fprintf(&b, `<div class="metric"><strong>Product Category:</strong> %s</div>`+"\n", esc(title(t.Category)))
		fmt.Fprintf(&b, `<div class="metric %s"><strong>Market Sentiment:</strong> %s</div>`+"\n", esc(t.MarketSentiment), esc(title(t.MarketSentiment)))
		b.WriteString("<ul>\n")
		fmt.Fprintf(&b, "<li>Search Volume Index: %d</li>\n", t.CurrentMetrics.SearchVolume)
		fmt.Fprintf(&b, "<li>Price Index: %.1f</li>\n", t.CurrentMetrics.PriceIndex)
		fmt.Fprintf(&b, "<li>Competition Index: %.1f</li>\n", t.CurrentMetrics.CompetitionIndex)
		fmt.Fprintf(&b, "<li>Monthly Search Change: %.1f%%</li>\n", t.TrendChanges.MonthlySearchChangePercent)
		fmt.Fprintf(&b, "<li>Monthly Price Change: %.1f%%</li>\n", t.TrendChanges.MonthlyPriceChangePercent)
		fmt.Fprintf(&b, "<li>6-Month Growth: %.1f%%</li>\n", t.TrendChanges.SixMonthGrowthPercent)
		b.WriteString("</ul>\n")
		if len(t.Insights) > 0 {
			b.WriteString("<p><strong>Key Market Insights:</strong></p>\n<ul>\n")
			for _, in := range t.Insights {
				fmt.Fprintf(&b, "<li>%s</li>\n", esc(in))
			}
			b.WriteString("</ul>\n")
		}
	} else {
		fmt.Fprintf(&b, `<div class="warning"><strong>Data Not Available</strong><br>%s</div>`+"\n", placeholder)
	}
	b.WriteString("</div>\n")

	b.WriteString(`<div class="section recommendations"><h2>Recommendations</h2>` + "\n<ul>\n")
	for _, rec := range recommendations(rc) {
		fmt.Fprintf(&b, "<li>%s</li>\n", esc(rec))
	}
	b.WriteString("</ul>\n</div>\n")

	fmt.Fprintf(&b, `<div class="footer">Report generated automatically on %s</div>
</div>
</body>
</html>
`, date)
	return b.String()
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
