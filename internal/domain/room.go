package domain

// RoomKey is the caller-supplied room identifier: arbitrary, case-sensitive,
// never validated. Rooms exist only while they have members.
type RoomKey string
