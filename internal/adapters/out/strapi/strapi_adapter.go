package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strconv"
	"time"

	"github.com/Bakeevd/vdoh-strapi/internal/config"
	"github.com/Bakeevd/vdoh-strapi/internal/core/domain"
	"github.com/Bakeevd/vdoh-strapi/internal/core/json_types"
	"github.com/Bakeevd/vdoh-strapi/internal/core/ports/out"
)

// Credentials - явные учетные данные для обращения к CMS.
// Никакого process-wide состояния: токен живет в адаптере и прикрепляется
// к каждому запросу перехватчиком.
type Credentials struct {
	Token string
}

// RequestInterceptor вызывается для каждого исходящего запроса перед отправкой.
type RequestInterceptor func(req *http.Request)

type StrapiAdapter struct {
	client         *http.Client
	baseURL        string
	credentials    Credentials
	interceptors   []RequestInterceptor
	onUnauthorized func()
	logger         out.LoggerPort
}

func NewStrapiAdapter(cfg *config.Config, logger out.LoggerPort) *StrapiAdapter {
	adapter := &StrapiAdapter{
		client:      &http.Client{Timeout: 10 * time.Second},
		baseURL:     cfg.Strapi.URL,
		credentials: Credentials{Token: cfg.Strapi.Token},
		logger:      logger,
	}

	adapter.interceptors = append(adapter.interceptors, func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+adapter.credentials.Token)
	})

	return adapter
}

// OnUnauthorized регистрирует колбэк инвалидации сеанса: он вызывается,
// когда хранилище отклоняет учетные данные.
func (a *StrapiAdapter) OnUnauthorized(fn func()) {
	a.onUnauthorized = fn
}

// AddInterceptor добавляет перехватчик исходящих запросов.
func (a *StrapiAdapter) AddInterceptor(interceptor RequestInterceptor) {
	a.interceptors = append(a.interceptors, interceptor)
}

func (a *StrapiAdapter) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for _, interceptor := range a.interceptors {
		interceptor(req)
	}
	return req, nil
}

func (a *StrapiAdapter) do(req *http.Request) (*http.Response, error) {
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		if a.onUnauthorized != nil {
			a.onUnauthorized()
		}
		return nil, domain.ErrUnauthorized
	}

	return resp, nil
}

// GetWorkingHours возвращает рабочее время за включительный диапазон дат.
// Пустой массив - валидный ответ, не ошибка.
func (a *StrapiAdapter) GetWorkingHours(ctx context.Context, specialistID int, startDate, endDate json_types.Date) ([]domain.WorkingHours, error) {
	a.logger.Info("strapi.working_hours.fetch", out.LogFields{
		"specialistId": specialistID,
		"startDate":    startDate.String(),
		"endDate":      endDate.String(),
	})

	url := fmt.Sprintf("%s/specialist-schedules", a.baseURL)
	req, err := a.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("specialistId", strconv.Itoa(specialistID))
	query.Add("startDate", startDate.String())
	query.Add("endDate", endDate.String())
	req.URL.RawQuery = query.Encode()

	resp, err := a.do(req)
	if err != nil {
		a.logger.Error("strapi.working_hours.fetch_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("strapi.working_hours.fetch_failed", out.LogFields{
			"specialistId": specialistID,
			"status":       resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var workingHours []domain.WorkingHours
	if err := json.NewDecoder(resp.Body).Decode(&workingHours); err != nil {
		a.logger.Error("strapi.working_hours.decode_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("strapi.working_hours.fetch_success", out.LogFields{
		"specialistId": specialistID,
		"count":        len(workingHours),
	})

	return workingHours, nil
}

// PutWorkingHours полностью заменяет расписание за отображаемую неделю,
// ровно 7 записей одним запросом.
func (a *StrapiAdapter) PutWorkingHours(ctx context.Context, specialistID int, week []domain.WorkingHours) error {
	a.logger.Info("strapi.working_hours.put", out.LogFields{
		"specialistId": specialistID,
		"days":         len(week),
	})

	body, err := json.Marshal(newPutSchedulePayload(week))
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/specialist-schedules/%d", a.baseURL, specialistID)
	req, err := a.newRequest(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	resp, err := a.do(req)
	if err != nil {
		a.logger.Error("strapi.working_hours.put_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("strapi.working_hours.put_failed", out.LogFields{
			"specialistId": specialistID,
			"status":       resp.StatusCode,
		})
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	a.logger.Debug("strapi.working_hours.put_success", out.LogFields{
		"specialistId": specialistID,
	})

	return nil
}

// GetBookingsForSpecialist возвращает живые бронирования за включительный
// диапазон дат для вывода производного флага занятости.
func (a *StrapiAdapter) GetBookingsForSpecialist(ctx context.Context, specialistID int, startDate, endDate json_types.Date) ([]domain.BookingSlot, error) {
	a.logger.Info("strapi.bookings.fetch", out.LogFields{
		"specialistId": specialistID,
		"startDate":    startDate.String(),
		"endDate":      endDate.String(),
	})

	url := fmt.Sprintf("%s/bookings", a.baseURL)
	req, err := a.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("filters[specialist][id][$eq]", strconv.Itoa(specialistID))
	query.Add("filters[date][$gte]", startDate.String())
	query.Add("filters[date][$lte]", endDate.String())
	query.Add("populate", "user,service,specialist")
	req.URL.RawQuery = query.Encode()

	resp, err := a.do(req)
	if err != nil {
		a.logger.Error("strapi.bookings.fetch_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("strapi.bookings.fetch_failed", out.LogFields{
			"specialistId": specialistID,
			"status":       resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope listResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		a.logger.Error("strapi.bookings.decode_failed", out.LogFields{
			"specialistId": specialistID,
			"error":        err.Error(),
		})
		return nil, err
	}

	bookings := make([]domain.BookingSlot, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		var attrs bookingAttributes
		if err := json.Unmarshal(item.Attributes, &attrs); err != nil {
			a.logger.Error("strapi.bookings.decode_resource_failed", out.LogFields{
				"bookingId": item.ID,
				"error":     err.Error(),
			})
			return nil, err
		}

		bookings = append(bookings, domain.BookingSlot{
			ID:           item.ID,
			SpecialistID: attrs.Specialist.id(),
			ServiceID:    attrs.Service.id(),
			UserID:       attrs.User.id(),
			Date:         attrs.Date,
			Time:         attrs.Time,
			Status:       attrs.Status,
		})
	}

	a.logger.Debug("strapi.bookings.fetch_success", out.LogFields{
		"specialistId": specialistID,
		"count":        len(bookings),
	})

	return bookings, nil
}

// GetSpecialistByUserID разрешает профиль специалиста по пользователю.
func (a *StrapiAdapter) GetSpecialistByUserID(ctx context.Context, userID int) (*domain.Specialist, error) {
	a.logger.Info("strapi.specialist.fetch", out.LogFields{
		"userId": userID,
	})

	url := fmt.Sprintf("%s/specialists", a.baseURL)
	req, err := a.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	query := nurl.Values{}
	query.Add("filters[user][id][$eq]", strconv.Itoa(userID))
	query.Add("populate", "user")
	req.URL.RawQuery = query.Encode()

	resp, err := a.do(req)
	if err != nil {
		a.logger.Error("strapi.specialist.fetch_failed", out.LogFields{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("strapi.specialist.fetch_failed", out.LogFields{
			"userId": userID,
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope listResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		a.logger.Error("strapi.specialist.decode_failed", out.LogFields{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil, err
	}

	if len(envelope.Data) == 0 {
		return nil, domain.ErrSpecialistNotFound
	}

	var attrs specialistAttributes
	if err := json.Unmarshal(envelope.Data[0].Attributes, &attrs); err != nil {
		a.logger.Error("strapi.specialist.decode_resource_failed", out.LogFields{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil, err
	}

	specialist := &domain.Specialist{
		ID:              envelope.Data[0].ID,
		UserID:          attrs.User.id(),
		Name:            attrs.Name,
		Slug:            attrs.Slug,
		Role:            attrs.Role,
		Specializations: attrs.Specializations,
		IsAvailable:     attrs.IsAvailable,
		Rating:          attrs.Rating,
	}

	a.logger.Debug("strapi.specialist.fetch_success", out.LogFields{
		"userId":       userID,
		"specialistId": specialist.ID,
	})

	return specialist, nil
}
