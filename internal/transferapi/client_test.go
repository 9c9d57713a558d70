package transferapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/example/transfer-reservations/internal/domain/reservation"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok-123", 2*time.Second)
}

func TestSeatStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/Reservation/seat-status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("unitId") != "unit-1" || q.Get("reservationDate") != "2026-09-01" || q.Get("zoneId") != "z-1" {
			t.Errorf("query = %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing X-Request-Id")
		}
		fmt.Fprint(w, `{"success":true,"message":"ok","data":{"totalSeats":10,"paid":[1,2],"pending":[3],"unitId":"unit-1","pickupTime":"08:30","reservationDate":"2026-09-01"}}`)
	})

	got, err := c.SeatStatus(context.Background(), "unit-1", "2026-09-01", "z-1")
	if err != nil {
		t.Fatalf("SeatStatus: %v", err)
	}
	want := reservation.SeatStatus{
		TotalSeats: 10, Paid: []int{1, 2}, Pending: []int{3},
		UnitID: "unit-1", PickupTime: "08:30", ReservationDate: "2026-09-01",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SeatStatus = %+v, want %+v", got, want)
	}
}

func TestEnvelopeFailureSurfacesMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"seat 4 no longer available"}`)
	})

	_, err := c.UpdateReservation(context.Background(), reservation.UpdateRequest{})
	var remote *reservation.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remote.Message != "seat 4 no longer available" {
		t.Fatalf("Message = %q, want the server string verbatim", remote.Message)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `upstream exploded`)
	})

	_, err := c.SeatStatus(context.Background(), "u", "d", "z")
	var remote *reservation.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remote.StatusCode != http.StatusBadGateway {
		t.Fatalf("StatusCode = %d", remote.StatusCode)
	}
}

func TestShapeMismatchIsError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"message":"ok","data":"not-an-object"}`)
	})

	_, err := c.SeatStatus(context.Background(), "u", "d", "z")
	if err == nil {
		t.Fatalf("mismatched data shape must be an error")
	}
	var remote *reservation.RemoteError
	if errors.As(err, &remote) {
		t.Fatalf("shape mismatch is a decode error, not a backend rejection: %v", err)
	}
}

func TestUpdateReservationPayload(t *testing.T) {
	var body updateBody
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/Reservation/update-reservation" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"success":true,"message":"ok","data":{"folio":"F-102"}}`)
	})

	req := reservation.UpdateRequest{
		Draft: reservation.Draft{
			UserID: "u-1", ZoneID: "z-1", AgencyID: "a-1", HotelID: "h-1",
			UnitID: "unit-1", StoreID: "s-1", PickupTime: "08:30",
			ReservationDate: "2026-09-01", ClientName: "Jane Roe",
			Adults: 1, Children: 1, Folio: "F-7",
		},
		SeatNumbers: []int{4, 5},
		Status:      reservation.StatusPaid,
	}
	folio, err := c.UpdateReservation(context.Background(), req)
	if err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}
	if folio != "F-102" {
		t.Fatalf("folio = %q, want F-102", folio)
	}
	if body.UserID != "u-1" || body.Folio != "F-7" || body.Status != "paid" || body.Pax != 2 {
		t.Fatalf("payload = %+v", body)
	}
	if !reflect.DeepEqual(body.SeatNumber, []int{4, 5}) {
		t.Fatalf("seatNumber = %v", body.SeatNumber)
	}
}

func TestUpdateReservationEmptySeatListIsNotNull(t *testing.T) {
	var raw map[string]json.RawMessage
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"success":true,"message":"ok"}`)
	})

	_, err := c.UpdateReservation(context.Background(), reservation.UpdateRequest{
		Draft:  reservation.Draft{UserID: "u-1"},
		Status: reservation.StatusPending,
	})
	if err != nil {
		t.Fatalf("UpdateReservation: %v", err)
	}
	if string(raw["seatNumber"]) != "[]" {
		t.Fatalf("seatNumber = %s, want []", raw["seatNumber"])
	}
}

func TestPendingReservations(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Reservation/pending-reservations/u-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"message":"ok","data":[{"folio":"F-7","zoneId":"z-1","unitId":"unit-1","reservationDate":"2026-09-01","clientName":"Jane Roe","seatNumber":[4,5],"adults":1,"children":1,"status":"pending"}]}`)
	})

	got, err := c.PendingReservations(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("PendingReservations: %v", err)
	}
	if len(got) != 1 || got[0].Folio != "F-7" || !reflect.DeepEqual(got[0].SeatNumbers, []int{4, 5}) {
		t.Fatalf("pending = %+v", got)
	}
}

func TestNameLookups(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Agency/a-1":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":{"id":"a-1","name":"Caribe Tours"}}`)
		case "/api/User/u-1":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":{"id":"u-1","name":"Jane Roe","agencyId":"a-1"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	agency, err := c.AgencyName(context.Background(), "a-1")
	if err != nil || agency != "Caribe Tours" {
		t.Fatalf("AgencyName = %q, %v", agency, err)
	}
	info, err := c.UserInfo(context.Background(), "u-1")
	if err != nil || info.Name != "Jane Roe" || info.AgencyID != "a-1" {
		t.Fatalf("UserInfo = %+v, %v", info, err)
	}
}

func TestRegisterReservation(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/Reservation/register-reservation" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"success":true,"message":"ok","data":"F-100"}`)
	})

	folio, err := c.RegisterReservation(context.Background(), reservation.UpdateRequest{
		Draft:  reservation.Draft{UserID: "u-1"},
		Status: reservation.StatusPending,
	})
	if err != nil || folio != "F-100" {
		t.Fatalf("RegisterReservation = %q, %v", folio, err)
	}
}

func TestLogin(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "rep@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		fmt.Fprint(w, `{"token":"jwt-abc","user":{"id":"u-1","name":"Jane Roe","email":"rep@example.com"}}`)
	})

	res, err := c.Login(context.Background(), "rep@example.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token != "jwt-abc" || res.User.ID != "u-1" {
		t.Fatalf("login result = %+v", res)
	}
}

func TestLoginRejected(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"message":"invalid credentials"}`)
	})

	_, err := c.Login(context.Background(), "rep@example.com", "wrong")
	var remote *reservation.RemoteError
	if !errors.As(err, &remote) || remote.Message != "invalid credentials" {
		t.Fatalf("err = %v", err)
	}
}
