package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/domain/lifecycle"
	"agrotrust/pkg/errors"
)

func TestFarmerUseCase_RegisterApproveFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	profile, err := f.farmers.Register(ctx, "", completeApplication())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(profile.ID, "f-"))
	assert.Equal(t, "2024-03-09", profile.JoinedDate)
	assert.Equal(t, entity.InitialTrustScore, profile.TrustScore)

	pending, err := f.farmers.ListPending(ctx)
	require.NoError(t, err)
	ids := []string{}
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"f3", profile.ID}, ids)

	approved, err := f.farmers.Approve(ctx, "admin-1", profile.ID)
	require.NoError(t, err)
	assert.True(t, approved.Verified)
	assert.Equal(t, 80, approved.TrustScore)

	again, err := f.farmers.Approve(ctx, "admin-1", profile.ID)
	require.NoError(t, err)
	assert.Equal(t, approved, again)

	stored, err := f.farmers.GetFarmer(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verified)

	verified, err := f.farmers.ListVerified(ctx)
	require.NoError(t, err)
	assert.Len(t, verified, 2)

	assert.Equal(t, []string{entity.EventFarmerRegistered, entity.EventFarmerApproved, entity.EventFarmerApproved}, f.events.types())
}

func TestFarmerUseCase_RegisterValidationError(t *testing.T) {
	f := newFixture()

	_, err := f.farmers.Register(context.Background(), "", entity.FarmerApplication{FirstName: "Amina"})

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)

	fields, ok := appErr.Details.([]lifecycle.FieldError)
	require.True(t, ok)
	assert.Len(t, fields, 6)
	assert.Empty(t, f.events.types())
}

func TestFarmerUseCase_RegisterDuplicate(t *testing.T) {
	f := newFixture()
	app := completeApplication()
	app.Phone = "08030000001"

	_, err := f.farmers.Register(context.Background(), "", app)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestFarmerUseCase_RegisterUnderAccountID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	profile, err := f.farmers.Register(ctx, "uid-amina", completeApplication())
	require.NoError(t, err)
	assert.Equal(t, "uid-amina", profile.ID)

	stored, err := f.farmers.GetFarmer(ctx, "uid-amina")
	require.NoError(t, err)
	assert.Equal(t, "Amina Bello", stored.Name)

	other := completeApplication()
	other.Phone = "08099999999"
	other.NIN = "99999999999"
	_, err = f.farmers.Register(ctx, "uid-amina", other)
	assert.True(t, errors.Is(err, "CONFLICT"), "one profile per account")
}

func TestFarmerUseCase_ApproveUnknown(t *testing.T) {
	f := newFixture()
	_, err := f.farmers.Approve(context.Background(), "admin-1", "nope")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestFarmerUseCase_RejectArchives(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	record, err := f.farmers.Reject(ctx, "admin-1", "f3", "  ")
	require.NoError(t, err)
	assert.Equal(t, "f3", record.FarmerID)
	assert.Equal(t, defaultRejectionReason, record.Reason)
	assert.Equal(t, "admin-1", record.RejectedBy)
	assert.Equal(t, testNow, record.RejectedAt)

	_, err = f.farmers.GetFarmer(ctx, "f3")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	pending, _ := f.farmers.ListPending(ctx)
	assert.Empty(t, pending)

	rejections, total, err := f.farmers.ListRejections(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Sunshine Groves", rejections[0].FarmName)

	_, err = f.farmers.Reject(ctx, "admin-1", "f3", "again")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
