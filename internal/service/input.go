package service

// QuoteReq is one state of the booking form.
type QuoteReq struct {
	RoomType string `json:"roomType"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
	Currency string `json:"currency"`
}
