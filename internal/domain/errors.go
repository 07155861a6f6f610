package domain

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrEmptyMessage    = errors.New("empty message")
	ErrMessageTooLong  = errors.New("message too long")
	ErrMessageRejected = errors.New("message contains inappropriate language")

	ErrFavoriteTeamUnset    = errors.New("set your favorite team to join a fan room")
	ErrFavoriteTeamMismatch = errors.New("you can only join your favorite team's fan room")
)
