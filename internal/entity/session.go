package entity

// Session binds one shared board to the id a client reconnects with.
type Session struct {
	ID   string `json:"id"`
	Game Game   `json:"game"`
}
