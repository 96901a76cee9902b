package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateMessageRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request UpdateMessageRequest
		wantErr bool
	}{
		{
			name:    "ValidContentUpdate",
			request: UpdateMessageRequest{Content: "new content", PropagateMode: "change_one"},
		},
		{
			name:    "ValidTopicMove",
			request: UpdateMessageRequest{Topic: "new topic", PropagateMode: "change_all"},
		},
		{
			name:    "NothingToUpdate",
			request: UpdateMessageRequest{PropagateMode: "change_one"},
			wantErr: true,
		},
		{
			name:    "MissingPropagateMode",
			request: UpdateMessageRequest{Content: "content"},
			wantErr: true,
		},
		{
			name:    "UnknownPropagateMode",
			request: UpdateMessageRequest{Content: "content", PropagateMode: "change_everything"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
