package payments

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// PaymentUseCase consultas de pagos y recibos, e impresión del recibo en PDF.
type PaymentUseCase struct {
	paymentRepo  repository.PaymentRepository
	orderRepo    repository.OrderRepository
	generator    ReceiptPDFGenerator
	pharmacyName string
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	generator ReceiptPDFGenerator,
	pharmacyName string,
) *PaymentUseCase {
	return &PaymentUseCase{
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		generator:    generator,
		pharmacyName: pharmacyName,
	}
}

// List pagos más recientes primero.
func (uc *PaymentUseCase) List(ctx context.Context, filter repository.PaymentFilter) (*dto.PaymentListResponse, error) {
	list, err := uc.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentListResponse{
		Items: make([]dto.PaymentResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, dto.NewPaymentResponse(p))
	}
	return out, nil
}

// ListReceipts recibos con monto, método y usuario que imprimió.
func (uc *PaymentUseCase) ListReceipts(ctx context.Context, limit, offset int) (*dto.ReceiptListResponse, error) {
	list, err := uc.paymentRepo.ListReceipts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ReceiptListResponse{
		Items: make([]dto.ReceiptResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range list {
		out.Items = append(out.Items, dto.NewReceiptResponse(r))
	}
	return out, nil
}

// ReceiptPDF carga recibo, pago, pedido y líneas y genera el PDF. Con ownerID no vacío
// (cliente autenticado) solo entrega recibos de pedidos de ese cliente.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el recibo (o su pago/pedido) no existe.
//   - domain.ErrForbidden       si el pedido pertenece a otro cliente.
func (uc *PaymentUseCase) ReceiptPDF(ctx context.Context, receiptID, ownerID string) ([]byte, string, error) {
	receipt, err := uc.paymentRepo.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener recibo: %w", err)
	}
	if receipt == nil {
		return nil, "", domain.ErrNotFound
	}
	payment, err := uc.paymentRepo.GetByID(ctx, receipt.PaymentID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pago: %w", err)
	}
	if payment == nil {
		return nil, "", domain.ErrNotFound
	}
	order, err := uc.orderRepo.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pedido: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}
	if ownerID != "" && order.CustomerID != ownerID {
		return nil, "", domain.ErrForbidden
	}
	items, err := uc.orderRepo.GetItems(ctx, order.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, ReceiptDocument{
		PharmacyName: uc.pharmacyName,
		Receipt:      receipt,
		Payment:      payment,
		Order:        order,
		Items:        items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("recibo-%s.pdf", receipt.ID), nil
}
