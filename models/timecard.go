package models

import "time"

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Opposite returns the direction a toggle appends after d.
func (d Direction) Opposite() Direction {
	if d == DirectionIn {
		return DirectionOut
	}
	return DirectionIn
}

// TimecardEvent is one immutable sign-in or sign-out. Timestamp is unix
// seconds (UTC); ID is the insertion sequence and breaks timestamp ties.
type TimecardEvent struct {
	ID            int64     `json:"id"`
	MemberID      int64     `json:"member_id"`
	ActivityID    int64     `json:"activity_id"`
	LocationID    int64     `json:"location_id"`
	Timestamp     int64     `json:"timestamp"`
	Direction     Direction `json:"direction"`
	OriginAddress string    `json:"origin_address"`
}

func (e TimecardEvent) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// After reports whether e happened after o in log order.
func (e TimecardEvent) After(o TimecardEvent) bool {
	if e.Timestamp != o.Timestamp {
		return e.Timestamp > o.Timestamp
	}
	return e.ID > o.ID
}

// EventScope narrows status lookups. Zero LocationID means every location of
// the activity; empty OriginAddress means any device.
type EventScope struct {
	MemberID      int64
	ActivityID    int64
	LocationID    int64
	OriginAddress string
}

// EventCursor is a position in the (timestamp, id) log order.
type EventCursor struct {
	Timestamp int64
	ID        int64
}

// HistoryFilter selects sign-in events for the history view. Times are
// inclusive unix-second bounds; zero means unbounded.
type HistoryFilter struct {
	ActivityID  int64
	From        int64
	To          int64
	MemberIDs   []int64
	LocationIDs []int64
	CourseIDs   []int64
}
