package gbp

var starRatings = map[string]int{
	"ONE":   1,
	"TWO":   2,
	"THREE": 3,
	"FOUR":  4,
	"FIVE":  5,
}

// StarRatingToNumber decodes Google's enum rating. Anything unknown,
// including STAR_RATING_UNSPECIFIED, is 0.
func StarRatingToNumber(rating string) int {
	return starRatings[rating]
}
