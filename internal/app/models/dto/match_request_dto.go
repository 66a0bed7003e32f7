package dto

import "github.com/yigit/mentormatch/internal/app/models"

// CreateMatchRequestRequest represents a mentee's request to a mentor
type CreateMatchRequestRequest struct {
	MentorID int64   `json:"mentorId" binding:"required" example:"3"`
	Message  *string `json:"message" binding:"required" example:"I would like to learn Go"`
}

// MatchRequestResponse is returned by create, accept, reject and cancel
type MatchRequestResponse struct {
	ID       int64  `json:"id" example:"10"`
	MentorID int64  `json:"mentorId" example:"3"`
	MenteeID int64  `json:"menteeId" example:"5"`
	Message  string `json:"message"`
	Status   string `json:"status" example:"pending" enums:"pending,accepted,rejected,cancelled"`
}

// IncomingMatchRequestResponse is one row of a mentor's inbox
type IncomingMatchRequestResponse struct {
	ID          int64  `json:"id"`
	MentorID    int64  `json:"mentorId"`
	MenteeID    int64  `json:"menteeId"`
	Message     string `json:"message"`
	Status      string `json:"status"`
	MenteeName  string `json:"menteeName"`
	MenteeEmail string `json:"menteeEmail"`
}

// OutgoingMatchRequestResponse is one row of a mentee's sent list
type OutgoingMatchRequestResponse struct {
	ID          int64  `json:"id"`
	MentorID    int64  `json:"mentorId"`
	MenteeID    int64  `json:"menteeId"`
	Status      string `json:"status"`
	MentorName  string `json:"mentorName"`
	MentorEmail string `json:"mentorEmail"`
}

// NewMatchRequestResponse maps a match request onto its API view
func NewMatchRequestResponse(mr *models.MatchRequest) *MatchRequestResponse {
	return &MatchRequestResponse{
		ID:       mr.ID,
		MentorID: mr.MentorID,
		MenteeID: mr.MenteeID,
		Message:  mr.Message,
		Status:   string(mr.Status),
	}
}

// NewIncomingList maps a mentor's requests, keeping storage order
func NewIncomingList(list []*models.MatchRequestDetails) []IncomingMatchRequestResponse {
	out := make([]IncomingMatchRequestResponse, 0, len(list))
	for _, d := range list {
		out = append(out, IncomingMatchRequestResponse{
			ID:          d.ID,
			MentorID:    d.MentorID,
			MenteeID:    d.MenteeID,
			Message:     d.Message,
			Status:      string(d.Status),
			MenteeName:  d.CounterpartName,
			MenteeEmail: d.CounterpartEmail,
		})
	}
	return out
}

// NewOutgoingList maps a mentee's requests, keeping storage order
func NewOutgoingList(list []*models.MatchRequestDetails) []OutgoingMatchRequestResponse {
	out := make([]OutgoingMatchRequestResponse, 0, len(list))
	for _, d := range list {
		out = append(out, OutgoingMatchRequestResponse{
			ID:          d.ID,
			MentorID:    d.MentorID,
			MenteeID:    d.MenteeID,
			Status:      string(d.Status),
			MentorName:  d.CounterpartName,
			MentorEmail: d.CounterpartEmail,
		})
	}
	return out
}
