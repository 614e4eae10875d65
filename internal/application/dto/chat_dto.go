package dto

import "time"

// SendMessageRequest body para POST /api/chat/messages.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	Message    string `json:"message" validate:"required,min=1,max=2000"`
}

// MessageResponse mensaje de chat.
type MessageResponse struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name,omitempty"`
	ReceiverID   string    `json:"receiver_id"`
	ReceiverName string    `json:"receiver_name,omitempty"`
	Message      string    `json:"message"`
	SentAt       time.Time `json:"sent_at"`
}

// ConversationResponse resumen de conversación.
type ConversationResponse struct {
	UserID          string    `json:"user_id"`
	FullName        string    `json:"full_name"`
	LastMessageTime time.Time `json:"last_message_time"`
}
