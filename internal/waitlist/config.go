package waitlist

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Config holds the review thresholds of the moderation queue.
type Config struct {
	MaxPriceDropPercentage      float64  `mapstructure:"max_price_drop_percentage"`
	MaxPriceIncreasePercentage  float64  `mapstructure:"max_price_increase_percentage"`
	DiscountTolerancePercentage float64  `mapstructure:"discount_tolerance_percentage"`
	SensitiveFields             []string `mapstructure:"sensitive_fields"`
	MaxIssuesBeforeReview       int      `mapstructure:"max_issues_before_review"`
	MaxDescriptionLength        int      `mapstructure:"max_description_length"`
	MaxBulkItems                int      `mapstructure:"max_bulk_items"`
	DefaultListLimit            int      `mapstructure:"default_list_limit"`
	StatsSampleLimit            int      `mapstructure:"stats_sample_limit"`
	DefaultActor                string   `mapstructure:"default_actor"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		MaxPriceDropPercentage:      30,
		MaxPriceIncreasePercentage:  50,
		DiscountTolerancePercentage: 1,
		SensitiveFields:             []string{"slug", "category_id", "brand_id"},
		MaxIssuesBeforeReview:       5,
		MaxDescriptionLength:        5000,
		MaxBulkItems:                100,
		DefaultListLimit:            50,
		StatsSampleLimit:            1000,
		DefaultActor:                "admin",
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxPriceDropPercentage == 0 {
		c.MaxPriceDropPercentage = d.MaxPriceDropPercentage
	}
	if c.MaxPriceIncreasePercentage == 0 {
		c.MaxPriceIncreasePercentage = d.MaxPriceIncreasePercentage
	}
	if c.DiscountTolerancePercentage == 0 {
		c.DiscountTolerancePercentage = d.DiscountTolerancePercentage
	}
	if c.SensitiveFields == nil {
		c.SensitiveFields = d.SensitiveFields
	}
	if c.MaxIssuesBeforeReview == 0 {
		c.MaxIssuesBeforeReview = d.MaxIssuesBeforeReview
	}
	if c.MaxDescriptionLength == 0 {
		c.MaxDescriptionLength = d.MaxDescriptionLength
	}
	if c.MaxBulkItems == 0 {
		c.MaxBulkItems = d.MaxBulkItems
	}
	if c.DefaultListLimit == 0 {
		c.DefaultListLimit = d.DefaultListLimit
	}
	if c.StatsSampleLimit == 0 {
		c.StatsSampleLimit = d.StatsSampleLimit
	}
	if c.DefaultActor == "" {
		c.DefaultActor = d.DefaultActor
	}
	return c
}

func (c Config) isSensitive(field string) bool {
	return slices.Contains(c.SensitiveFields, field)
}

func (c Config) maxDrop() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPriceDropPercentage)
}

func (c Config) maxIncrease() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPriceIncreasePercentage)
}

func (c Config) discountTolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.DiscountTolerancePercentage)
}
