package canteen

import (
	"canteen-service/internal/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRequestWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.CreatePurchaseRequest(ctx, f.cook, NewPurchaseRequest{Product: "Картофель", Quantity: 20, Unit: "кг", Reason: "мало"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, f.cook.ID, req.CreatedBy)

	approved, err := f.svc.ApproveRequest(ctx, f.admin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.admin.ID, *approved.ApprovedBy)
	assert.Equal(t, testNow, *approved.ApprovedAt)
	assert.Nil(t, approved.RejectedBy)

	_, err = f.svc.RejectRequest(ctx, f.admin, req.ID)
	assert.ErrorIs(t, err, ErrRequestClosed)

	other, err := f.svc.CreatePurchaseRequest(ctx, f.cook, NewPurchaseRequest{Product: "Лук", Quantity: 5})
	require.NoError(t, err)
	rejected, err := f.svc.RejectRequest(ctx, f.admin, other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedBy)

	all, err := f.svc.ListRequests(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPurchaseRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePurchaseRequest(ctx, f.cook, NewPurchaseRequest{Product: " ", Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreatePurchaseRequest(ctx, f.cook, NewPurchaseRequest{Product: "Соль", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.svc.CreatePurchaseRequest(ctx, f.student, NewPurchaseRequest{Product: "Соль", Quantity: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.ApproveRequest(ctx, f.cook, 1)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.ApproveRequest(ctx, f.admin, 999)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
