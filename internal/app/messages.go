package app

import (
	"jasper/internal/client"
	"jasper/internal/types"
)

type queryResultMsg struct {
	query string
	resp  *client.QueryResponse
	err   error
}

type openItemMsg struct {
	id  string
	err error
}

type startupPingMsg struct {
	err error
}

type indexStatusMsg struct {
	status *types.IndexStatus
	err    error
}

type indexPollMsg struct{}

type hideIndexMsg struct{}

type restartSignaledMsg struct{}

type recoveryProbeMsg struct {
	err error
}

type clearStatusMsg struct{}
