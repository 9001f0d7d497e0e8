package scheduling

import (
	"fmt"

	"knipetak/models"
)

// ResolvePricing validates the requested duration against the treatment's
// published options and returns the total price.
//
// For individual bookings the requested duration must exactly match a
// published (duration, price) pair.
//
// For group bookings the requested duration is the total for the group;
// the per-person effective duration (total / size) must divide evenly and
// match a published duration exactly. When the group meets the discount
// threshold and a discounted per-person price is published for that
// effective duration, the total is discount price x size, otherwise
// standard price x size.
func ResolvePricing(treatment models.Treatment, isGroup bool, groupSize, requestedDuration int) (float64, error) {
	if requestedDuration <= 0 {
		return 0, NewValidationError(CodeInvalidDuration, "no duration selected")
	}

	if !isGroup {
		option, ok := treatment.OptionFor(requestedDuration)
		if !ok {
			return 0, NewValidationError(CodeInvalidDuration,
				fmt.Sprintf("duration %d is not offered for treatment %s", requestedDuration, treatment.ID))
		}
		return option.Price, nil
	}

	if groupSize < 1 {
		return 0, NewValidationError(CodeInvalidGroupSize, "group size must be at least 1")
	}
	if requestedDuration%groupSize != 0 {
		return 0, NewValidationError(CodeInvalidDuration,
			fmt.Sprintf("total duration %d does not divide evenly across %d people", requestedDuration, groupSize))
	}
	effective := requestedDuration / groupSize
	option, ok := treatment.OptionFor(effective)
	if !ok {
		return 0, NewValidationError(CodeInvalidDuration,
			fmt.Sprintf("effective duration %d per person is not offered for treatment %s", effective, treatment.ID))
	}

	pricePerPerson := option.Price
	if discounted, ok := treatment.DiscountPriceFor(groupSize, effective); ok {
		pricePerPerson = discounted
	}
	return pricePerPerson * float64(groupSize), nil
}
