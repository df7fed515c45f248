package reviews

import "modesta/utils"

// Stats summarizes a product's ratings.
type Stats struct {
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// Summarize averages ratings to one decimal and counts each star value.
// Values outside 1..5 are ignored.
func Summarize(ratings []int) Stats {
	s := Stats{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, r := range ratings {
		if r < 1 || r > 5 {
			continue
		}
		s.RatingDistribution[r]++
		s.TotalReviews++
		sum += r
	}
	if s.TotalReviews > 0 {
		s.AverageRating = utils.RoundOne(float64(sum) / float64(s.TotalReviews))
	}
	return s
}
