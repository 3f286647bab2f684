// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tvserver

import "strconv"

// StatusCode is the status_code field of a response envelope.
type StatusCode int

const (
	StatusOK                 StatusCode = 0
	StatusError              StatusCode = 1000
	StatusInvalidData        StatusCode = 1001
	StatusInvalidParam       StatusCode = 1002
	StatusNotImplemented     StatusCode = 1003
	StatusMCNotRunning       StatusCode = 1005
	StatusNoDefaultRecorder  StatusCode = 1006
	StatusMCEConnectionError StatusCode = 1008
	StatusConnectionError    StatusCode = 2000
	StatusUnauthorised       StatusCode = 2001
)

var statusNames = map[StatusCode]string{
	StatusOK:                 "STATUS_OK",
	StatusError:              "STATUS_ERROR",
	StatusInvalidData:        "STATUS_INVALID_DATA",
	StatusInvalidParam:       "STATUS_INVALID_PARAM",
	StatusNotImplemented:     "STATUS_NOT_IMPLEMENTED",
	StatusMCNotRunning:       "STATUS_MC_NOT_RUNNING",
	StatusNoDefaultRecorder:  "STATUS_NO_DEFAULT_RECORDER",
	StatusMCEConnectionError: "STATUS_MCE_CONNECTION_ERROR",
	StatusConnectionError:    "STATUS_CONNECTION_ERROR",
	StatusUnauthorised:       "STATUS_UNAUTHORISED",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "STATUS_" + strconv.Itoa(int(s))
}

// OK reports whether s is the only success value.
func (s StatusCode) OK() bool { return s == StatusOK }
