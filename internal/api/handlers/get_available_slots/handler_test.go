package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-FieldBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-FieldBookingService/pkg/logger"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

type stubUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (s *stubUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &getAvailableSlots.Response{
		Date:          req.Date,
		FieldID:       req.FieldID,
		DurationHours: 2,
		Slots: []domain.AvailableSlot{
			{StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("10:00"), DurationHours: 2, Price: 5000, Available: true},
			{StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("11:00"), DurationHours: 2, Price: 5000, Available: false},
		},
	}, nil
}

func serve(uc *stubUseCase, fieldID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fields/"+fieldID+"/available-slots?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"fieldId": fieldID})
	rec := httptest.NewRecorder()

	NewHandler(uc, logger.Nop()).Handle(rec, req)
	return rec
}

func TestHandle_Slots(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, "4", "date=2025-06-01&duration=2")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(4), uc.got.FieldID)
	assert.Equal(t, 2, uc.got.DurationHours)
	assert.True(t, uc.got.Date.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-01", resp.Date)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "10:00", resp.Slots[0].EndTime)
	assert.True(t, resp.Slots[0].Available)
	assert.False(t, resp.Slots[1].Available)
}

func TestHandle_DurationOptional(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, "4", "date=2025-06-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, uc.got.DurationHours)
}

func TestHandle_BadRequests(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "x", "date=2025-06-01").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "4", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "4", "date=June").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "4", "date=2025-06-01&duration=two").Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{getAvailableSlots.ErrFieldNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrPastDate, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidDuration, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := serve(&stubUseCase{err: tt.err}, "4", "date=2025-06-01")
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}
}
