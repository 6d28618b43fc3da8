package client

import (
	"context"
	"net/http"
	"net/url"

	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

// SlotClient talks to the availability service.
type SlotClient struct {
	httpClient *HttpClient
}

func NewSlotClient(baseUrl string) *SlotClient {
	return &SlotClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *SlotClient) Create(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	var created model.Slot
	if err := c.httpClient.call(ctx, http.MethodPost, "/api/v1/slots", slot, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *SlotClient) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	if err := c.httpClient.call(ctx, http.MethodGet, "/api/v1/slots/"+url.PathEscape(id), nil, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (c *SlotClient) Update(ctx context.Context, id string, update *model.SlotUpdate) (*model.Slot, error) {
	var slot model.Slot
	if err := c.httpClient.call(ctx, http.MethodPatch, "/api/v1/slots/"+url.PathEscape(id), update, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (c *SlotClient) Delete(ctx context.Context, id string) error {
	return c.httpClient.call(ctx, http.MethodDelete, "/api/v1/slots/"+url.PathEscape(id), nil, nil)
}

func (c *SlotClient) ListByPhotographer(ctx context.Context, photographerID string) ([]model.Slot, error) {
	var slots []model.Slot
	if err := c.httpClient.call(ctx, http.MethodGet, photographerPath(photographerID)+"/slots", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *SlotClient) GetWeeklySchedule(ctx context.Context, photographerID string) (*scheduling.WeeklySchedule, error) {
	var schedule scheduling.WeeklySchedule
	if err := c.httpClient.call(ctx, http.MethodGet, photographerPath(photographerID)+"/schedule", nil, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *SlotClient) ReplaceWeeklySchedule(ctx context.Context, photographerID string, days []model.DaySlots) (*scheduling.WeeklySchedule, error) {
	var schedule scheduling.WeeklySchedule
	body := model.WeeklyScheduleRequest{Days: days}
	if err := c.httpClient.call(ctx, http.MethodPut, photographerPath(photographerID)+"/schedule", body, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *SlotClient) GetStats(ctx context.Context, photographerID string) (*scheduling.AvailabilityStats, error) {
	var stats scheduling.AvailabilityStats
	if err := c.httpClient.call(ctx, http.MethodGet, photographerPath(photographerID)+"/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func photographerPath(id string) string {
	return "/api/v1/photographers/" + url.PathEscape(id)
}
