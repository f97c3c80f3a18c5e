package service

import "errors"

var (
	ErrorPollerNotReady = errors.New("impex: poller missing client or sleeper")
	ErrorNoArchivePath  = errors.New("impex: archive path is empty")
)
