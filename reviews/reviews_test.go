package reviews

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0.0, s.AverageRating)
	assert.Equal(t, 0, s.TotalReviews)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, s.RatingDistribution)

	s = Summarize([]int{5, 4, 4, 2, 0, 7})
	assert.Equal(t, 4, s.TotalReviews)
	assert.Equal(t, 3.8, s.AverageRating)
	assert.Equal(t, 2, s.RatingDistribution[4])
	assert.Equal(t, 1, s.RatingDistribution[5])
	assert.Equal(t, 0, s.RatingDistribution[1])

	assert.Equal(t, 4.7, Summarize([]int{5, 5, 4}).AverageRating)
}

func TestReviewInputValidate(t *testing.T) {
	ok := reviewInput{ProductID: "p1", Rating: 5, Title: " Lovely ", Comment: "Soft fabric"}
	assert.Empty(t, ok.validate())
	assert.Equal(t, "Lovely", ok.Title)

	tests := []struct {
		name string
		in   reviewInput
		want string
	}{
		{"missing title", reviewInput{ProductID: "p1", Rating: 4, Comment: "x"}, "All fields are required"},
		{"rating too high", reviewInput{ProductID: "p1", Rating: 6, Title: "t", Comment: "c"}, "Rating must be between 1 and 5"},
		{"negative rating", reviewInput{ProductID: "p1", Rating: -1, Title: "t", Comment: "c"}, "Rating must be between 1 and 5"},
		{"long title", reviewInput{ProductID: "p1", Rating: 3, Title: strings.Repeat("a", 101), Comment: "c"}, "Title cannot exceed 100 characters"},
		{"long comment", reviewInput{ProductID: "p1", Rating: 3, Title: "t", Comment: strings.Repeat("a", 1001)}, "Comment cannot exceed 1000 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.validate())
		})
	}
}
