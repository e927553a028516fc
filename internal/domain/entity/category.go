package entity

type Category struct {
	ID   string `json:"id" firestore:"-"`
	Name string `json:"name" firestore:"name"`
	Slug string `json:"slug" firestore:"slug"`
	URL  string `json:"url,omitempty" firestore:"url,omitempty"`
}
