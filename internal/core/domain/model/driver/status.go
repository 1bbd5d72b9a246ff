package driver

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the working state a driver reports.
type Status string

const (
	Offline Status = "OFFLINE"
	Online  Status = "ONLINE"
	Busy    Status = "BUSY"
	OnBreak Status = "ON_BREAK"
)

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	switch s {
	case Offline, Online, Busy, OnBreak:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}
