package domain

// Link is a navigational link descriptor.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}
