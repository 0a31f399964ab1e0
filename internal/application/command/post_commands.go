package command

type CreatePostCommand struct {
	CallerId    string   `json:"-"`
	StockSymbol string   `json:"stockSymbol"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type CreatePostCommandResult struct {
	PostId string `json:"postId"`
	UserId string `json:"user"`
}

type DeletePostCommand struct {
	CallerId string
	PostId   string
}

// LikePostCommand is used for both like and unlike.
type LikePostCommand struct {
	CallerId string
	PostId   string
}
