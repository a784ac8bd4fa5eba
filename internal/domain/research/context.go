package research

// Context is the per-run scratch structure the workflow accumulates its
// intermediate artifacts into. Owned exclusively by one orchestrator
// invocation; never shared across concurrent runs. Every field is empty
// until the corresponding tool populates it.
type Context struct {
	ProductName string
	Product     *ProductBundle
	Reviews     []Review
	Sentiment   *SentimentAnalysis
	Trends      *MarketTrends
	ReportPath  string
}

// Snapshot flattens the context into a plain mapping, mirroring what the
// tools produced. Absent steps stay nil.
func (c *Context) Snapshot() map[string]any {
	out := map[string]any{
		"product_name":       nil,
		"product_info":       nil,
		"reviews_data":       nil,
		"sentiment_analysis": nil,
		"market_trends":      nil,
		"report_path":        nil,
	}
	if c.ProductName != "" {
		out["product_name"] = c.ProductName
	}
	if c.Product != nil {
		out["product_info"] = c.Product
	}
	if c.Reviews != nil {
		out["reviews_data"] = c.Reviews
	}
	if c.Sentiment != nil {
		out["sentiment_analysis"] = c.Sentiment
	}
	if c.Trends != nil {
		out["market_trends"] = c.Trends
	}
	if c.ReportPath != "" {
		out["report_path"] = c.ReportPath
	}
	return out
}
