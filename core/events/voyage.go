package events

import "seatrace/core/types"

const (
	TypeTripStarted   = "voyage.trip.started"
	TypeTripEnded     = "voyage.trip.ended"
	TypeCatchRecorded = "voyage.catch.recorded"
	TypeCatchVerified = "voyage.catch.verified"
)

type TripStarted struct {
	TripID      string
	VesselID    string
	Captain     string
	DepartedAt  int64
	FishingZone string
}

func (TripStarted) EventType() string { return TypeTripStarted }

func (e TripStarted) Event() *types.Event {
	return &types.Event{
		Type: TypeTripStarted,
		Attributes: map[string]string{
			"tripId":      e.TripID,
			"vesselId":    e.VesselID,
			"captain":     e.Captain,
			"departedAt":  intToString(e.DepartedAt),
			"fishingZone": e.FishingZone,
		},
	}
}

type TripEnded struct {
	TripID     string
	ReturnPort string
	ReturnedAt int64
}

func (TripEnded) EventType() string { return TypeTripEnded }

func (e TripEnded) Event() *types.Event {
	return &types.Event{
		Type: TypeTripEnded,
		Attributes: map[string]string{
			"tripId":     e.TripID,
			"returnPort": e.ReturnPort,
			"returnedAt": intToString(e.ReturnedAt),
		},
	}
}

type CatchRecorded struct {
	TripID   string
	CatchID  string
	Species  string
	Quantity int64
	Unit     string
}

func (CatchRecorded) EventType() string { return TypeCatchRecorded }

func (e CatchRecorded) Event() *types.Event {
	return &types.Event{
		Type: TypeCatchRecorded,
		Attributes: map[string]string{
			"tripId":   e.TripID,
			"catchId":  e.CatchID,
			"species":  e.Species,
			"quantity": intToString(e.Quantity),
			"unit":     e.Unit,
		},
	}
}

type CatchVerified struct {
	TripID   string
	CatchID  string
	Verifier string
	Verified bool
}

func (CatchVerified) EventType() string { return TypeCatchVerified }

func (e CatchVerified) Event() *types.Event {
	return &types.Event{
		Type: TypeCatchVerified,
		Attributes: map[string]string{
			"tripId":   e.TripID,
			"catchId":  e.CatchID,
			"verifier": e.Verifier,
			"verified": boolToString(e.Verified),
		},
	}
}
