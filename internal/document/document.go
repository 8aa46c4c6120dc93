// Package document renders the paperwork issued on assignment events: the
// delivery act when a device is handed over and the return act when it comes
// back. Artifacts are persisted through the storage backend and addressed by
// opaque keys; the assignment ledger treats generation as best effort.
package document

import (
	"time"
)

// DeliverySnapshot carries the fields printed on a delivery act. It is a
// copy taken at generation time, so a later edit to the device or employee
// does not alter paperwork already issued.
type DeliverySnapshot struct {
	EmployeeName     string
	EmployeeTitle    string
	ResponsibleName  string
	ResponsibleTitle string
	AssignedOn       time.Time
	PhoneNumber      string
	DeviceBrand      string
	DeviceModel      string
	DeviceIMEI       string
	DeviceCondition  string
}

// ReturnSnapshot carries the fields printed on a return act.
type ReturnSnapshot struct {
	EmployeeName  string
	EmployeeTitle string
	AssignedOn    time.Time
	ReturnedOn    time.Time
	DeviceBrand   string
	DeviceModel   string
	DeviceSerial  string
	DeviceIMEI    string
	Notes         string
}
