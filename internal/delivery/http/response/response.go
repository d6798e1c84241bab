package response

import (
	"time"

	"github.com/user/manifest-service/internal/entity"
)

// SessionResponse is the DTO a UI renders from.
type SessionResponse struct {
	ID        string       `json:"id"`
	State     entity.State `json:"state"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func NewSessionResponse(s *entity.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		State:     s.State,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type HistoryResponse struct {
	URL      string               `json:"url"`
	Requests []*entity.RequestLog `json:"requests"`
}
