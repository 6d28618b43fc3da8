package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

type Quote struct {
	Price            scheduling.PriceCalculation `json:"price"`
	DistanceConflict scheduling.DistanceConflict `json:"distanceConflict"`
}

type BookingResult struct {
	Booking          *model.Booking              `json:"booking"`
	Price            scheduling.PriceCalculation `json:"price"`
	DistanceConflict scheduling.DistanceConflict `json:"distanceConflict"`
}

type CleanupReport struct {
	Ran            bool      `json:"ran"`
	Expired        int       `json:"expired"`
	Failed         int       `json:"failed"`
	NextEligibleAt time.Time `json:"nextEligibleAt"`
}

// BookingClient talks to the bookings service.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *BookingClient) Quote(ctx context.Context, req *model.BookingRequest) (*Quote, error) {
	var quote Quote
	if err := c.httpClient.call(ctx, http.MethodPost, "/api/v1/bookings/quote", req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *BookingClient) Create(ctx context.Context, req *model.BookingRequest) (*BookingResult, error) {
	var result BookingResult
	if err := c.httpClient.call(ctx, http.MethodPost, "/api/v1/bookings", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	if err := c.httpClient.call(ctx, http.MethodGet, bookingPath(id), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *BookingClient) Reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*BookingResult, error) {
	var result BookingResult
	if err := c.httpClient.call(ctx, http.MethodPut, bookingPath(id)+"/schedule", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *BookingClient) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "confirm")
}

func (c *BookingClient) Start(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "start")
}

func (c *BookingClient) Complete(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "complete")
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "cancel")
}

func (c *BookingClient) FileComplaint(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "complaint")
}

func (c *BookingClient) ResolveComplaintWithRefund(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "refund")
}

func (c *BookingClient) Expire(ctx context.Context, id string) (*model.Booking, error) {
	return c.transition(ctx, id, "expire")
}

func (c *BookingClient) transition(ctx context.Context, id, action string) (*model.Booking, error) {
	var booking model.Booking
	if err := c.httpClient.call(ctx, http.MethodPost, bookingPath(id)+"/"+action, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Page describes one slice of a paginated listing.
type Page struct {
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

// ListForPhotographer returns one page of bookings overlapping [from, to).
// Zero times and a zero limit leave the choice to the server defaults.
func (c *BookingClient) ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time, limit int, offset int64) ([]model.Booking, *Page, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(time.RFC3339))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	}

	path := "/api/v1/photographers/" + url.PathEscape(photographerID) + "/bookings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.httpClient.Get(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, decodeError(resp)
	}

	var wrapper struct {
		Data []model.Booking `json:"data"`
		Page
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list: %w", err)
	}
	return wrapper.Data, &wrapper.Page, nil
}

func (c *BookingClient) Cleanup(ctx context.Context) (*CleanupReport, error) {
	var report CleanupReport
	if err := c.httpClient.call(ctx, http.MethodPost, "/api/v1/bookings/cleanup", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func bookingPath(id string) string {
	return "/api/v1/bookings/id/" + url.PathEscape(id)
}
