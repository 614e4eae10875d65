package entity

import "time"

// Notification mensaje dirigido a un usuario (alertas de stock, avisos manuales).
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
