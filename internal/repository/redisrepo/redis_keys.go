package redisrepo

import "fmt"

const (
	POST_KEY            = "post:%s"       // <postID>
	USER_CACHE_KEY      = "user-cache:%s" // <userID>
	FEED_TOPIC          = "live:feed"
	POST_COMMENTS_TOPIC = "live:post:%s:comments" // <postID>
)

func PostKey(postID string) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}

func FeedTopic() string {
	return FEED_TOPIC
}

func PostCommentsTopic(postID string) string {
	return fmt.Sprintf(POST_COMMENTS_TOPIC, postID)
}
