package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/testing/memstore"
)

func TestChat_ConversacionEnOrden(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewChatUseCase(s.Messages(), s.Users())
	ctx := context.Background()
	pharmacist := s.SeedUser(entity.RoleTechnician, "Regente")
	customer := s.SeedUser(entity.RoleCustomer, "Cliente")
	other := s.SeedUser(entity.RoleCustomer, "Otro")

	_, err := uc.Send(ctx, customer, dto.SendMessageRequest{ReceiverID: pharmacist, Message: "¿Tienen insulina?"})
	require.NoError(t, err)
	reply, err := uc.Send(ctx, pharmacist, dto.SendMessageRequest{ReceiverID: customer, Message: "Sí, 3 unidades"})
	require.NoError(t, err)
	assert.Equal(t, "Cliente", reply.ReceiverName)
	_, err = uc.Send(ctx, other, dto.SendMessageRequest{ReceiverID: pharmacist, Message: "Hola"})
	require.NoError(t, err)

	msgs, err := uc.Messages(ctx, customer, pharmacist)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "¿Tienen insulina?", msgs[0].Message)
	assert.Equal(t, "Sí, 3 unidades", msgs[1].Message)

	convs, err := uc.Conversations(ctx, pharmacist)
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	_, err = uc.Send(ctx, customer, dto.SendMessageRequest{ReceiverID: customer, Message: "yo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Send(ctx, customer, dto.SendMessageRequest{ReceiverID: "00000000-0000-0000-0000-000000000000", Message: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestNotification_SoloElDestinatarioMarcaLeida(t *testing.T) {
	s := memstore.New()
	uc := usecase.NewNotificationUseCase(s.Notifications(), s.Users())
	ctx := context.Background()
	owner := s.SeedUser(entity.RoleManager, "Gerente")
	intruder := s.SeedUser(entity.RoleCashier, "Cajero")

	n, err := uc.Create(ctx, dto.CreateNotificationRequest{UserID: owner, Title: "Inventario", Message: "Conteo el viernes"})
	require.NoError(t, err)
	assert.False(t, n.IsRead)

	_, err = uc.MarkAsRead(ctx, intruder, n.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	read, err := uc.MarkAsRead(ctx, owner, n.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	mine, err := uc.ListForUser(ctx, owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := uc.ListForUser(ctx, intruder, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = uc.Create(ctx, dto.CreateNotificationRequest{UserID: "00000000-0000-0000-0000-000000000000", Title: "x", Message: "y"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
