package model

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		input string
		want  BookingStatus
		ok    bool
	}{
		{input: "Pending", want: StatusPending, ok: true},
		{input: "In_Progress", want: StatusInProgress, ok: true},
		{input: "InProgress", want: StatusInProgress, ok: true},
		{input: "UNDER_REVIEW", want: StatusUnderReview, ok: true},
		{input: "under review", want: StatusUnderReview, ok: true},
		{input: " cancelled ", want: StatusCancelled, ok: true},
		{input: "Refunded", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseBookingStatus(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseBookingStatus(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBookingStatus_UnmarshalJSON(t *testing.T) {
	var b struct {
		Status BookingStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"UNDER REVIEW"}`), &b); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if b.Status != StatusUnderReview {
		t.Errorf("status = %q, want %q", b.Status, StatusUnderReview)
	}

	if err := json.Unmarshal([]byte(`{"status":"Refunded"}`), &b); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if b.Status.IsValid() {
		t.Errorf("unknown label %q reported valid", b.Status)
	}
}

func TestBookingStatus_UnmarshalBSONValue(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"status": "under_review"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc struct {
		Status BookingStatus `bson:"status"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc.Status != StatusUnderReview {
		t.Errorf("status = %q, want %q", doc.Status, StatusUnderReview)
	}

	raw, _ = bson.Marshal(bson.M{"status": 3})
	if err := bson.Unmarshal(raw, &doc); err == nil {
		t.Error("expected error for non string status")
	}
}

func TestBooking_LocationKey(t *testing.T) {
	venue := &Booking{LocationID: "65f1c0000000000000000001"}
	if got := venue.LocationKey(); got != "venue:65f1c0000000000000000001" {
		t.Errorf("venue key = %q", got)
	}

	a := &Booking{ExternalLocation: &ExternalLocation{Name: "Taman Suropati", Address: "Menteng, Jakarta"}}
	b := &Booking{ExternalLocation: &ExternalLocation{Name: "  taman  SUROPATI ", Address: "Menteng Jakarta"}}
	if a.LocationKey() != b.LocationKey() {
		t.Errorf("expected equal keys, got %q and %q", a.LocationKey(), b.LocationKey())
	}

	withID := &Booking{ExternalLocation: &ExternalLocation{ID: "place-7", Name: "Anywhere", Address: "Somewhere"}}
	if got := withID.LocationKey(); got != "external:place-7" {
		t.Errorf("external id key = %q", got)
	}

	if got := (&Booking{}).LocationKey(); got != "" {
		t.Errorf("empty booking key = %q", got)
	}
}
