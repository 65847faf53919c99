package domain

import "time"

// Product is one row of the product sheet.
type Product struct {
	// Row is the 1-based sheet row, header included, so the first product is row 2.
	Row int `json:"row" mapstructure:"row"`
	// Name is the product name column.
	Name string `json:"name" mapstructure:"name"`
	// URL is the product page URL.
	URL string `json:"url" mapstructure:"url"`
	// Status is the current value of the status column.
	Status string `json:"status" mapstructure:"status"`
}

// ProductResult summarises what happened to one product during a run.
type ProductResult struct {
	Product     Product
	Marketplace Marketplace
	Reviews     int
	Destination string
	Status      string
	Err         error
	Duration    time.Duration
}
