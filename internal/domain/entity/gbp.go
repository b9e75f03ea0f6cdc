package entity

import "time"

// GBPAccount is a Business Profile account visible to the connected grant.
type GBPAccount struct {
	Name          string `json:"name"` // accounts/{id}
	AccountName   string `json:"accountName"`
	Type          string `json:"type"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// GBPLocation is a listing under an account. Address is flattened for display.
type GBPLocation struct {
	Name       string `json:"name"` // locations/{id}
	Title      string `json:"title"`
	Address    string `json:"address"`
	WebsiteURI string `json:"websiteUri,omitempty"`
}

// GBPReview is one review as Google reports it.
type GBPReview struct {
	Name             string
	ReviewID         string
	ReviewerName     string
	ReviewerPhotoURL string
	StarRating       int
	Comment          string
	CreateTime       time.Time
	UpdateTime       time.Time
	Reply            *GBPReviewReply
}

type GBPReviewReply struct {
	Comment    string
	UpdateTime time.Time
}

// GBPReviewPage is one page of a location's reviews.
type GBPReviewPage struct {
	Reviews          []*GBPReview
	AverageRating    float64
	TotalReviewCount int
	NextPageToken    string
}
