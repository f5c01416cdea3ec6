package dto

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=2,max=200"`
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

type GetPostsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset" binding:"min=0"`
}
