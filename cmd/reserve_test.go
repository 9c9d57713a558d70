package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/example/transfer-reservations/internal/authsession"
)

type recordedUpdate struct {
	Folio        string `json:"folio"`
	Status       string `json:"status"`
	SeatNumber   []int  `json:"seatNumber"`
	Observations string `json:"observations"`
}

// fakeBackend serves the reservation API surface the reserve command touches
// and records every update-reservation body it receives.
func fakeBackend(t *testing.T) (*httptest.Server, func() []recordedUpdate) {
	t.Helper()
	var mu sync.Mutex
	var updates []recordedUpdate

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Reservation/pending-reservations/u-1":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":[]}`)
		case "/api/Reservation/register-reservation":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":"F-1"}`)
		case "/api/Reservation/seat-status":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":{"totalSeats":10,"paid":[1,2],"pending":[3]}}`)
		case "/api/Reservation/update-reservation":
			var u recordedUpdate
			if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
				t.Errorf("decode update body: %v", err)
			}
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
			fmt.Fprint(w, `{"success":true,"message":"ok","data":{"folio":"F-1"}}`)
		case "/api/Agency/a-1":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":{"id":"a-1","name":"Caribe Tours"}}`)
		case "/api/User/u-1":
			fmt.Fprint(w, `{"success":true,"message":"ok","data":{"id":"u-1","name":"Jane Roe"}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedUpdate {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedUpdate(nil), updates...)
	}
}

func seedSession(t *testing.T, apiURL string) {
	t.Helper()
	hashKey := bytes.Repeat([]byte{0xA1}, 32)
	blockKey := bytes.Repeat([]byte{0xB2}, 32)
	sessionFile := filepath.Join(t.TempDir(), "session")

	t.Setenv("TRANSFER_API_URL", apiURL)
	t.Setenv("SESSION_FILE", sessionFile)
	t.Setenv("SESSION_HASH_KEY", base64.StdEncoding.EncodeToString(hashKey))
	t.Setenv("SESSION_BLOCK_KEY", base64.StdEncoding.EncodeToString(blockKey))
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("DATABASE_URL", "")

	store := authsession.NewStore(sessionFile, hashKey, blockKey)
	if err := store.Save(authsession.Session{Token: "tok", UserID: "u-1", AgencyID: "a-1"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func runReserve(t *testing.T, extra ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(append([]string{
		"reserve",
		"--zone", "z-1", "--unit", "unit-1", "--date", "2026-09-01",
		"--client", "Jane Roe", "--adults", "1", "--children", "1",
		"--seats", "4,5",
	}, extra...))
	return root.Execute()
}

func TestReserveHoldLeavesSeatsHeld(t *testing.T) {
	srv, recorded := fakeBackend(t)
	seedSession(t, srv.URL)

	if err := runReserve(t, "--hold"); err != nil {
		t.Fatalf("reserve --hold: %v", err)
	}

	updates := recorded()
	if len(updates) != 1 {
		t.Fatalf("update calls = %d, want the hold only: %+v", len(updates), updates)
	}
	if updates[0].Status != "pending" || !reflect.DeepEqual(updates[0].SeatNumber, []int{4, 5}) {
		t.Fatalf("hold request = %+v, want pending seats 4,5", updates[0])
	}
}

func TestReserveConfirms(t *testing.T) {
	srv, recorded := fakeBackend(t)
	seedSession(t, srv.URL)

	if err := runReserve(t); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	updates := recorded()
	if len(updates) != 1 {
		t.Fatalf("update calls = %d, want the confirming submit only: %+v", len(updates), updates)
	}
	if updates[0].Status != "paid" || !reflect.DeepEqual(updates[0].SeatNumber, []int{4, 5}) {
		t.Fatalf("confirm request = %+v, want paid seats 4,5", updates[0])
	}
}
