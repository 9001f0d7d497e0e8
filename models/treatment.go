package models

import "strconv"

// DurationOption is one published (duration, price) pair for a treatment.
type DurationOption struct {
	Duration int     `bson:"duration" json:"duration"` // minutes per person
	Price    float64 `bson:"price" json:"price"`
}

// GroupDiscount holds discounted per-person prices keyed by effective
// duration (minutes, as a string), applicable from GroupSizeThreshold up.
type GroupDiscount struct {
	GroupSizeThreshold int                `bson:"groupSize" json:"groupSize"`
	Prices             map[string]float64 `bson:"prices" json:"prices"`
}

// Treatment is one bookable service with its published durations and
// group pricing rules.
type Treatment struct {
	ID        string           `bson:"id" json:"id"`
	Name      string           `bson:"name" json:"name"`
	Durations []DurationOption `bson:"durations" json:"durations"`
	Discounts GroupDiscount    `bson:"discounts" json:"discounts"`
}

// OptionFor returns the published option matching the given per-person
// duration exactly, if any.
func (t Treatment) OptionFor(duration int) (DurationOption, bool) {
	for _, d := range t.Durations {
		if d.Duration == duration {
			return d, true
		}
	}
	return DurationOption{}, false
}

// DiscountPriceFor returns the discounted per-person price for the given
// effective duration, if the group qualifies and a price is published.
func (t Treatment) DiscountPriceFor(groupSize, effectiveDuration int) (float64, bool) {
	if groupSize < t.Discounts.GroupSizeThreshold {
		return 0, false
	}
	price, ok := t.Discounts.Prices[strconv.Itoa(effectiveDuration)]
	return price, ok
}
