package dto

import (
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// Conversión de entidades a respuestas HTTP, compartida por los casos de uso.

func NewUserResponse(u *entity.User) UserResponse {
	out := UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.DOB != nil {
		out.DOB = u.DOB.Format(time.DateOnly)
	}
	return out
}

func NewMedicineResponse(m *entity.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:                   m.ID,
		Name:                 m.Name,
		DosageForm:           m.DosageForm,
		Strength:             m.Strength,
		CategoryID:           m.CategoryID,
		CategoryName:         m.CategoryName,
		CompanyID:            m.CompanyID,
		CompanyName:          m.CompanyName,
		RequiresPrescription: m.RequiresPrescription,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func NewBatchResponse(b *entity.Batch) BatchResponse {
	return BatchResponse{
		ID:            b.ID,
		MedicineID:    b.MedicineID,
		MedicineName:  b.MedicineName,
		BatchNumber:   b.BatchNumber,
		Quantity:      b.Quantity,
		ExpiryDate:    b.ExpiryDate.Format(time.DateOnly),
		PurchasePrice: b.PurchasePrice,
		SellingPrice:  b.SellingPrice,
		CreatedAt:     b.CreatedAt,
	}
}

func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:        m.ID,
		BatchID:   m.BatchID,
		Quantity:  m.Quantity,
		Type:      m.Type,
		Reason:    m.Reason,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func NewOrderResponse(o *entity.Order, items []*entity.OrderItem) OrderResponse {
	out := OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		OrderedBy:     o.OrderedBy,
		OrderedByName: o.OrderedByName,
		OrderStatus:   o.OrderStatus,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		Discount:      o.Discount,
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemResponse{
			ID:           it.ID,
			BatchID:      it.BatchID,
			BatchNumber:  it.BatchNumber,
			MedicineName: it.MedicineName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			VATPercent:   it.VATPercent,
			Subtotal:     it.Subtotal(),
		})
	}
	return out
}

func NewPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		OrderID:              p.OrderID,
		PaidBy:               p.PaidBy,
		PaidByName:           p.PaidByName,
		Amount:               p.Amount,
		PaymentMethod:        p.Method,
		TransactionReference: p.TransactionReference,
		CreatedAt:            p.CreatedAt,
	}
}

func NewReceiptResponse(r *entity.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:            r.ID,
		PaymentID:     r.PaymentID,
		OrderID:       r.OrderID,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		PrintedBy:     r.PrintedBy,
		PrintedByName: r.PrintedByName,
		CreatedAt:     r.CreatedAt,
	}
}

func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func NewDeliveryResponse(d *entity.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:                 d.ID,
		OrderID:            d.OrderID,
		DeliveryPersonID:   d.DeliveryPersonID,
		DeliveryPersonName: d.DeliveryPersonName,
		CustomerName:       d.CustomerName,
		OrderTotal:         d.OrderTotal,
		DeliveryAddress:    d.DeliveryAddress,
		Status:             d.Status,
		DeliveredAt:        d.DeliveredAt,
		CreatedAt:          d.CreatedAt,
	}
}

func NewFeedbackResponse(f *entity.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		OrderID:   f.OrderID,
		UserID:    f.UserID,
		UserName:  f.UserName,
		Message:   f.Message,
		Rating:    f.Rating,
		CreatedAt: f.CreatedAt,
	}
}

func NewMessageResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		SenderID:     m.SenderID,
		SenderName:   m.SenderName,
		ReceiverID:   m.ReceiverID,
		ReceiverName: m.ReceiverName,
		Message:      m.Message,
		SentAt:       m.SentAt,
	}
}
