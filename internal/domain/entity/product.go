package entity

type Product struct {
	ID                 string   `json:"id" firestore:"-"`
	Title              string   `json:"title" firestore:"title"`
	Description        string   `json:"description" firestore:"description"`
	Category           string   `json:"category" firestore:"category"`
	Brand              string   `json:"brand,omitempty" firestore:"brand,omitempty"`
	Price              float64  `json:"price" firestore:"price"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty" firestore:"discountPercentage,omitempty"`
	Rating             float64  `json:"rating" firestore:"rating"`
	Stock              int      `json:"stock" firestore:"stock"`
	Tags               []string `json:"tags" firestore:"tags"`
	Thumbnail          string   `json:"thumbnail,omitempty" firestore:"thumbnail,omitempty"`
	Images             []string `json:"images" firestore:"images"`
	Reviews            []Review `json:"reviews" firestore:"reviews"`
}

// ReviewIndex returns the position of the review with the given id, or -1.
func (p *Product) ReviewIndex(reviewID string) int {
	for i := range p.Reviews {
		if p.Reviews[i].ID == reviewID {
			return i
		}
	}
	return -1
}
