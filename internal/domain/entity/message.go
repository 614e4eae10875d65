package entity

import "time"

// Message mensaje de chat entre dos usuarios.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string
	Message    string
	SentAt     time.Time

	SenderName   string // solo lectura
	ReceiverName string // solo lectura
}

// Conversation resumen de una conversación desde el punto de vista de un usuario.
type Conversation struct {
	UserID          string
	FullName        string
	LastMessageTime time.Time
}
