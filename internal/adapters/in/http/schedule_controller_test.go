package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bakeevd/vdoh-strapi/internal/config"
	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
)

type stubUseCase struct {
	onLoadWeek   func(sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error)
	onToggleSlot func(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error)
	onSaveWeek   func(sessionID uuid.UUID) error

	createdFor int
	closed     []uuid.UUID
}

func (s *stubUseCase) ResolveSpecialist(ctx context.Context, userID int) (*domain.Specialist, error) {
	if userID != 15 {
		return nil, domain.ErrSpecialistNotFound
	}
	return &domain.Specialist{ID: 42, UserID: 15, Name: "Анна Иванова"}, nil
}

func (s *stubUseCase) CreateSession(specialistID int) uuid.UUID {
	s.createdFor = specialistID
	return uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
}

func (s *stubUseCase) CloseSession(sessionID uuid.UUID) {
	s.closed = append(s.closed, sessionID)
}

func (s *stubUseCase) LoadWeek(ctx context.Context, sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error) {
	if s.onLoadWeek != nil {
		return s.onLoadWeek(sessionID, weekStart)
	}
	return domain.NewDefaultWeek(42, weekStart), nil
}

func (s *stubUseCase) ToggleSlot(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error) {
	if s.onToggleSlot != nil {
		return s.onToggleSlot(sessionID, dayIndex, slotIndex)
	}
	return domain.NewDefaultWeek(42, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)), nil
}

func (s *stubUseCase) SetDayAvailability(sessionID uuid.UUID, dayIndex int, available bool) ([]domain.WorkingHours, error) {
	return domain.NewDefaultWeek(42, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)), nil
}

func (s *stubUseCase) SaveWeek(ctx context.Context, sessionID uuid.UUID) error {
	if s.onSaveWeek != nil {
		return s.onSaveWeek(sessionID)
	}
	return nil
}

func (s *stubUseCase) ApplyBookingEvent(event domain.BookingEvent) {}

func newTestRouter(useCase *stubUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.BasicClients = []config.ConfigBasicClient{
		{Username: "schedule_service", Password: "schedule_service"},
	}

	router := gin.New()
	NewScheduleController(useCase, cfg).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.SetBasicAuth("schedule_service", "schedule_service")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestBasicAuth(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	t.Run("Missing Credentials", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/api/v1/profile/sections", nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "Basic realm=Authorization Required", resp.Header().Get("WWW-Authenticate"))
	})

	t.Run("Wrong Credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profile/sections", nil)
		req.SetBasicAuth("schedule_service", "wrong")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Valid Credentials", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/api/v1/profile/sections", nil, true)
		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestProfileSections(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	t.Run("Default Role", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/api/v1/profile/sections", nil, true)
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Role     string   `json:"role"`
			Sections []string `json:"sections"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "authenticated", body.Role)
		assert.NotContains(t, body.Sections, string(domain.SectionSchedule))
	})

	t.Run("Specialist Role", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/api/v1/profile/sections?role=specialist", nil, true)
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Sections []string `json:"sections"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Contains(t, body.Sections, string(domain.SectionSchedule))
	})
}

func TestSpecialistByUser(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	t.Run("Found", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/api/v1/specialists/by-user/15", nil, true)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Unknown User", func(t *testing.T) {
		resp := doRequest(router, http.MethodGet, "/api/v1/specialists/by-user/99", nil, true)
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestSessionLifecycle(t *testing.T) {
	useCase := &stubUseCase{}
	router := newTestRouter(useCase)

	resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions",
		CreateSessionRequest{SpecialistID: 42}, true)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, 42, useCase.createdFor)

	var created struct {
		SessionID uuid.UUID `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = doRequest(router, http.MethodDelete, "/api/v1/schedule/sessions/"+created.SessionID.String(), nil, true)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, []uuid.UUID{created.SessionID}, useCase.closed)
}

func TestLoadWeekEndpoint(t *testing.T) {
	sessionID := uuid.New().String()

	t.Run("Returns Schedule", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/load",
			LoadWeekRequest{WeekStart: "2024-06-03"}, true)
		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			WeekStart string                `json:"weekStart"`
			Schedule  []domain.WorkingHours `json:"schedule"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "2024-06-03", body.WeekStart)
		assert.Len(t, body.Schedule, domain.DaysPerWeek)
	})

	t.Run("Normalizes Week Start To Monday", func(t *testing.T) {
		var received time.Time
		router := newTestRouter(&stubUseCase{
			onLoadWeek: func(sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error) {
				received = weekStart
				return domain.NewDefaultWeek(42, weekStart), nil
			},
		})

		// Среда 2024-06-05 приводится к понедельнику 2024-06-03
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/load",
			LoadWeekRequest{WeekStart: "2024-06-05"}, true)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "2024-06-03", received.Format("2006-01-02"))

		var body struct {
			WeekStart string `json:"weekStart"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "2024-06-03", body.WeekStart)
	})

	t.Run("Stale Load", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{
			onLoadWeek: func(sessionID uuid.UUID, weekStart time.Time) ([]domain.WorkingHours, error) {
				return nil, domain.ErrStaleLoad
			},
		})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/load",
			LoadWeekRequest{WeekStart: "2024-06-03"}, true)
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("Invalid Session ID", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/not-a-uuid/load",
			LoadWeekRequest{WeekStart: "2024-06-03"}, true)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Invalid Date Format", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/load",
			LoadWeekRequest{WeekStart: "03.06.2024"}, true)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestToggleSlotEndpoint(t *testing.T) {
	sessionID := uuid.New().String()

	t.Run("Booked Slot Conflict", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{
			onToggleSlot: func(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error) {
				return nil, domain.ErrSlotLocked
			},
		})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/slots/toggle",
			ToggleSlotRequest{Day: 0, Slot: 2}, true)
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("Out Of Range", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{
			onToggleSlot: func(sessionID uuid.UUID, dayIndex, slotIndex int) ([]domain.WorkingHours, error) {
				return nil, domain.ErrSlotIndex
			},
		})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/slots/toggle",
			ToggleSlotRequest{Day: 0, Slot: 22}, true)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestSaveWeekEndpoint(t *testing.T) {
	sessionID := uuid.New().String()

	t.Run("Saved", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/save", nil, true)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"saved":true}`, resp.Body.String())
	})

	t.Run("Save In Progress", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{
			onSaveWeek: func(sessionID uuid.UUID) error { return domain.ErrSaveInProgress },
		})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/save", nil, true)
		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("Store Failure", func(t *testing.T) {
		router := newTestRouter(&stubUseCase{
			onSaveWeek: func(sessionID uuid.UUID) error { return domain.ErrUnauthorized },
		})
		resp := doRequest(router, http.MethodPost, "/api/v1/schedule/sessions/"+sessionID+"/save", nil, true)
		assert.Equal(t, http.StatusBadGateway, resp.Code)
	})
}
