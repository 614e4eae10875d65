package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// NotificationRepo notificaciones en memoria.
type NotificationRepo struct{ v view }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	return r.v.do("notifications.Create", func(st *state) error {
		if _, ok := st.users[n.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r *NotificationRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	err := r.v.do("notifications.ListByUser", func(st *state) error {
		all := sortedValues(st.notifications, func(a, b *entity.Notification) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
		var mine []entity.Notification
		for _, n := range all {
			if n.UserID == userID {
				mine = append(mine, n)
			}
		}
		for _, n := range paginate(mine, limit, offset) {
			out = append(out, ptr(n))
		}
		return nil
	})
	return out, err
}

func (r *NotificationRepo) MarkAsRead(_ context.Context, id, userID string) (*entity.Notification, error) {
	var out *entity.Notification
	err := r.v.do("notifications.MarkAsRead", func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.UserID != userID {
			return nil
		}
		n.IsRead = true
		st.notifications[id] = n
		out = ptr(n)
		return nil
	})
	return out, err
}

func (r *NotificationRepo) ExistsSince(_ context.Context, userID, title, message string, since time.Time) (bool, error) {
	var exists bool
	err := r.v.do("notifications.ExistsSince", func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID && n.Title == title && n.Message == message && !n.CreatedAt.Before(since) {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

// AllNotifications copia de todas las notificaciones, ordenadas por destinatario y fecha.
func (s *Store) AllNotifications() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.st.notifications, func(a, b *entity.Notification) bool {
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// DeliveryRepo entregas y valoraciones en memoria.
type DeliveryRepo struct{ v view }

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

func withDeliveryDetail(st *state, d entity.Delivery) *entity.Delivery {
	o := st.orders[d.OrderID]
	d.OrderTotal = o.TotalAmount
	d.DeliveryPersonName = userName(st, d.DeliveryPersonID)
	d.CustomerName = userName(st, o.CustomerID)
	return &d
}

func (r *DeliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	return r.v.do("deliveries.Create", func(st *state) error {
		if _, ok := st.orders[d.OrderID]; !ok {
			return fmt.Errorf("%w: pedido o repartidor inexistente", domain.ErrInvalidReference)
		}
		if _, ok := st.users[d.DeliveryPersonID]; !ok {
			return fmt.Errorf("%w: pedido o repartidor inexistente", domain.ErrInvalidReference)
		}
		st.deliveries[d.ID] = *d
		return nil
	})
}

func (r *DeliveryRepo) get(op, id string) (*entity.Delivery, error) {
	var out *entity.Delivery
	err := r.v.do(op, func(st *state) error {
		if d, ok := st.deliveries[id]; ok {
			out = withDeliveryDetail(st, d)
		}
		return nil
	})
	return out, err
}

func (r *DeliveryRepo) GetByID(_ context.Context, id string) (*entity.Delivery, error) {
	return r.get("deliveries.GetByID", id)
}

func (r *DeliveryRepo) GetForUpdate(_ context.Context, id string) (*entity.Delivery, error) {
	return r.get("deliveries.GetForUpdate", id)
}

func (r *DeliveryRepo) List(_ context.Context, filter repository.DeliveryFilter) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	err := r.v.do("deliveries.List", func(st *state) error {
		all := sortedValues(st.deliveries, func(a, b *entity.Delivery) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
		var matched []entity.Delivery
		for _, d := range all {
			if filter.DeliveryPersonID != "" && d.DeliveryPersonID != filter.DeliveryPersonID {
				continue
			}
			if filter.Status != "" && d.Status != filter.Status {
				continue
			}
			matched = append(matched, d)
		}
		for _, d := range paginate(matched, filter.Limit, filter.Offset) {
			out = append(out, withDeliveryDetail(st, d))
		}
		return nil
	})
	return out, err
}

func (r *DeliveryRepo) UpdateStatus(_ context.Context, id, status string, deliveredAt *time.Time) error {
	return r.v.do("deliveries.UpdateStatus", func(st *state) error {
		if !entity.IsValidDeliveryStatus(status) {
			return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		d, ok := st.deliveries[id]
		if !ok {
			return domain.ErrNotFound
		}
		d.Status, d.DeliveredAt = status, deliveredAt
		st.deliveries[id] = d
		return nil
	})
}

func (r *DeliveryRepo) CreateFeedback(_ context.Context, f *entity.Feedback) error {
	return r.v.do("deliveries.CreateFeedback", func(st *state) error {
		if _, ok := st.orders[f.OrderID]; !ok {
			return fmt.Errorf("%w: pedido inexistente", domain.ErrInvalidReference)
		}
		if f.Rating < 1 || f.Rating > 5 {
			return fmt.Errorf("%w: la valoración debe estar entre 1 y 5", domain.ErrInvalidInput)
		}
		st.feedback = append(st.feedback, *f)
		return nil
	})
}

func (r *DeliveryRepo) ListFeedback(_ context.Context, limit, offset int) ([]*entity.Feedback, error) {
	var out []*entity.Feedback
	err := r.v.do("deliveries.ListFeedback", func(st *state) error {
		all := append([]entity.Feedback(nil), st.feedback...)
		sort.SliceStable(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID < all[j].ID
			}
			return all[i].CreatedAt.After(all[j].CreatedAt)
		})
		for _, f := range paginate(all, limit, offset) {
			f.UserName = userName(st, f.UserID)
			out = append(out, ptr(f))
		}
		return nil
	})
	return out, err
}

// MessageRepo chat en memoria.
type MessageRepo struct{ v view }

var _ repository.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(_ context.Context, m *entity.Message) error {
	return r.v.do("messages.Create", func(st *state) error {
		if _, ok := st.users[m.SenderID]; !ok {
			return domain.ErrUserNotFound
		}
		if _, ok := st.users[m.ReceiverID]; !ok {
			return domain.ErrUserNotFound
		}
		st.messages = append(st.messages, *m)
		return nil
	})
}

func (r *MessageRepo) ListBetween(_ context.Context, userA, userB string) ([]*entity.Message, error) {
	var out []*entity.Message
	err := r.v.do("messages.ListBetween", func(st *state) error {
		for _, m := range st.messages {
			if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
				m.SenderName = userName(st, m.SenderID)
				m.ReceiverName = userName(st, m.ReceiverID)
				out = append(out, ptr(m))
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
		return nil
	})
	return out, err
}

func (r *MessageRepo) ListConversations(_ context.Context, userID string) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	err := r.v.do("messages.ListConversations", func(st *state) error {
		last := map[string]time.Time{}
		for _, m := range st.messages {
			other := ""
			switch userID {
			case m.SenderID:
				other = m.ReceiverID
			case m.ReceiverID:
				other = m.SenderID
			default:
				continue
			}
			if t, ok := last[other]; !ok || m.SentAt.After(t) {
				last[other] = m.SentAt
			}
		}
		for id, t := range last {
			out = append(out, &entity.Conversation{UserID: id, FullName: userName(st, id), LastMessageTime: t})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].LastMessageTime.After(out[j].LastMessageTime) })
		return nil
	})
	return out, err
}
