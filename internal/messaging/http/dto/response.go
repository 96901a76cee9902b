// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/RobertRosca/zulip-write-only-proxy/internal/zulip"
)

// SendMessageResponse contains the result of relaying a message.
type SendMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

// UploadFileResponse contains the server-side path of an uploaded file.
type UploadFileResponse struct {
	URI string `json:"uri"`
}

// TopicResponse represents a stream topic in API responses.
type TopicResponse struct {
	Name  string `json:"name"`
	MaxID int64  `json:"max_id"`
}

// ListTopicsResponse represents the topics of the client's stream.
type ListTopicsResponse struct {
	Data []TopicResponse `json:"data"`
}

// MapTopicsToListResponse converts Zulip topics to a list API response.
func MapTopicsToListResponse(topics []zulip.Topic) ListTopicsResponse {
	topicResponses := make([]TopicResponse, 0, len(topics))
	for _, topic := range topics {
		topicResponses = append(topicResponses, TopicResponse{
			Name:  topic.Name,
			MaxID: topic.MaxID,
		})
	}
	return ListTopicsResponse{
		Data: topicResponses,
	}
}
