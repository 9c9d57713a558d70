// Package transferapi is the HTTP client for the transfer reservation
// backend. Every endpoint answers the same {success, message, data}
// envelope; a response that does not fit it is an error, never a type
// branch.
package transferapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/transfer-reservations/internal/domain/reservation"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	hc      *http.Client
	baseURL string
	token   string
}

// New builds a client for the backend at baseURL. token may be empty for
// the login call itself.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

var _ reservation.Gateway = (*Client)(nil)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) SeatStatus(ctx context.Context, unitID, reservationDate, zoneID string) (reservation.SeatStatus, error) {
	q := url.Values{}
	q.Set("unitId", unitID)
	q.Set("reservationDate", reservationDate)
	q.Set("zoneId", zoneID)

	var data struct {
		TotalSeats      int    `json:"totalSeats"`
		Paid            []int  `json:"paid"`
		Pending         []int  `json:"pending"`
		UnitID          string `json:"unitId"`
		PickupTime      string `json:"pickupTime"`
		ReservationDate string `json:"reservationDate"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/Reservation/seat-status", q, nil, &data); err != nil {
		return reservation.SeatStatus{}, err
	}
	return reservation.SeatStatus{
		TotalSeats:      data.TotalSeats,
		Paid:            data.Paid,
		Pending:         data.Pending,
		UnitID:          data.UnitID,
		PickupTime:      data.PickupTime,
		ReservationDate: data.ReservationDate,
	}, nil
}

// RegisterReservation creates a fresh draft server-side and returns the
// folio the backend issued for it.
func (c *Client) RegisterReservation(ctx context.Context, req reservation.UpdateRequest) (string, error) {
	var folio string
	if err := c.call(ctx, http.MethodPost, "/api/Reservation/register-reservation", nil, updatePayload(req), &folio); err != nil {
		return "", err
	}
	return folio, nil
}

// UpdateReservation submits the draft with its seats and proposed status.
// The folio comes back on the confirming update.
func (c *Client) UpdateReservation(ctx context.Context, req reservation.UpdateRequest) (string, error) {
	var data struct {
		Folio string `json:"folio"`
	}
	if err := c.call(ctx, http.MethodPut, "/api/Reservation/update-reservation", nil, updatePayload(req), &data); err != nil {
		return "", err
	}
	return data.Folio, nil
}

func (c *Client) PendingReservations(ctx context.Context, userID string) ([]reservation.Pending, error) {
	var data []struct {
		Folio           string `json:"folio"`
		UserID          string `json:"userId"`
		ZoneID          string `json:"zoneId"`
		AgencyID        string `json:"agencyId"`
		HotelID         string `json:"hotelId"`
		UnitID          string `json:"unitId"`
		StoreID         string `json:"storeId"`
		PickupTime      string `json:"pickupTime"`
		ReservationDate string `json:"reservationDate"`
		ClientName      string `json:"clientName"`
		SeatNumber      []int  `json:"seatNumber"`
		Adults          int    `json:"adults"`
		Children        int    `json:"children"`
		Status          string `json:"status"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/Reservation/pending-reservations/"+url.PathEscape(userID), nil, nil, &data); err != nil {
		return nil, err
	}
	out := make([]reservation.Pending, 0, len(data))
	for _, p := range data {
		out = append(out, reservation.Pending{
			Folio:           p.Folio,
			UserID:          p.UserID,
			ZoneID:          p.ZoneID,
			AgencyID:        p.AgencyID,
			HotelID:         p.HotelID,
			UnitID:          p.UnitID,
			StoreID:         p.StoreID,
			PickupTime:      p.PickupTime,
			ReservationDate: p.ReservationDate,
			ClientName:      p.ClientName,
			SeatNumbers:     p.SeatNumber,
			Adults:          p.Adults,
			Children:        p.Children,
			Status:          p.Status,
		})
	}
	return out, nil
}

func (c *Client) AgencyName(ctx context.Context, agencyID string) (string, error) {
	var data struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/Agency/"+url.PathEscape(agencyID), nil, nil, &data); err != nil {
		return "", err
	}
	return data.Name, nil
}

func (c *Client) UserName(ctx context.Context, userID string) (string, error) {
	info, err := c.UserInfo(ctx, userID)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

// UserInfo is the user lookup behind UserName; login also uses it to learn
// the rep's agency.
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	AgencyID string `json:"agencyId"`
}

func (c *Client) UserInfo(ctx context.Context, userID string) (UserInfo, error) {
	var data UserInfo
	if err := c.call(ctx, http.MethodGet, "/api/User/"+url.PathEscape(userID), nil, nil, &data); err != nil {
		return UserInfo{}, err
	}
	return data, nil
}

// Availability is the seats-left summary for a unit before seat selection.
type Availability struct {
	UnitID         string `json:"unitId"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
}

func (c *Client) UnitAvailability(ctx context.Context, unitID, reservationDate, zoneID string) (Availability, error) {
	q := url.Values{}
	q.Set("unitId", unitID)
	q.Set("reservationDate", reservationDate)
	q.Set("zoneId", zoneID)
	var data Availability
	if err := c.call(ctx, http.MethodGet, "/api/home/unit-availability", q, nil, &data); err != nil {
		return Availability{}, err
	}
	return data, nil
}

// LoginResult is the one response in the API that is not enveloped.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		RoleID string `json:"roleId"`
	} `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	status, raw, err := c.do(ctx, http.MethodPost, "/api/Auth/login", nil, body)
	if err != nil {
		return LoginResult{}, err
	}
	if status >= 400 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return LoginResult{}, &reservation.RemoteError{Message: env.Message, StatusCode: status}
	}
	var res LoginResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	if res.Token == "" {
		return LoginResult{}, fmt.Errorf("login response carried no token")
	}
	return res, nil
}

type updateBody struct {
	UserID          string `json:"userId"`
	ZoneID          string `json:"zoneId"`
	AgencyID        string `json:"agencyId"`
	HotelID         string `json:"hotelId"`
	UnitID          string `json:"unitId"`
	SeatNumber      []int  `json:"seatNumber"`
	PickupTime      string `json:"pickupTime"`
	ReservationDate string `json:"reservationDate"`
	ClientName      string `json:"clientName"`
	Observations    string `json:"observations"`
	StoreID         string `json:"storeId"`
	Pax             int    `json:"pax"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	Status          string `json:"status"`
	Folio           string `json:"folio"`
}

func updatePayload(req reservation.UpdateRequest) updateBody {
	seats := req.SeatNumbers
	if seats == nil {
		seats = []int{}
	}
	obs := req.Observations
	if obs == "" {
		obs = "none"
	}
	d := req.Draft
	return updateBody{
		UserID:          d.UserID,
		ZoneID:          d.ZoneID,
		AgencyID:        d.AgencyID,
		HotelID:         d.HotelID,
		UnitID:          d.UnitID,
		SeatNumber:      seats,
		PickupTime:      d.PickupTime,
		ReservationDate: d.ReservationDate,
		ClientName:      d.ClientName,
		Observations:    obs,
		StoreID:         d.StoreID,
		Pax:             d.Pax(),
		Adults:          d.Adults,
		Children:        d.Children,
		Status:          req.Status,
		Folio:           d.Folio,
	}
}

// call runs one enveloped request and decodes data into out (skipped when
// out is nil). A transport failure, a non-2xx status, success=false or a
// data shape mismatch all come back as errors.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	status, raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	var env envelope
	if uerr := json.Unmarshal(raw, &env); uerr != nil {
		if status >= 400 {
			return &reservation.RemoteError{StatusCode: status}
		}
		return fmt.Errorf("decode %s response: %w", path, uerr)
	}
	if status >= 400 || !env.Success {
		return &reservation.RemoteError{Message: env.Message, StatusCode: status}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, raw, nil
}
