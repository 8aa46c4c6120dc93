package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeviceStatus is the lifecycle state of a device in the inventory.
type DeviceStatus string

const (
	DeviceStatusAvailable DeviceStatus = "available"
	DeviceStatusAssigned  DeviceStatus = "assigned"
	DeviceStatusRetired   DeviceStatus = "retired"
)

// PhysicalCondition describes the physical state of a device.
type PhysicalCondition string

const (
	ConditionNew     PhysicalCondition = "new"
	ConditionUsed    PhysicalCondition = "used"
	ConditionDamaged PhysicalCondition = "damaged"
)

type Device struct {
	ID                uuid.UUID         `json:"id"`
	Brand             string            `json:"brand"`
	Model             string            `json:"model"`
	SerialNumber      *string           `json:"serial_number,omitempty"`
	IMEI              *string           `json:"imei,omitempty"`
	PhoneNumber       *string           `json:"phone_number,omitempty"`
	PlanID            *uuid.UUID        `json:"plan_id,omitempty"`
	InitialCost       float64           `json:"initial_cost"`
	PurchaseDate      time.Time         `json:"purchase_date"`
	PhysicalCondition PhysicalCondition `json:"physical_condition"`
	Status            DeviceStatus      `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (d Device) IsAvailable() bool {
	return d.Status == DeviceStatusAvailable
}

func (d Device) IsAssigned() bool {
	return d.Status == DeviceStatusAssigned
}

// DeviceView is a read-only projection of a device enriched with its
// current or most recent holder. Assembled by the repository query path,
// never written back.
type DeviceView struct {
	Device
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	LastAssignedTo *string    `json:"last_assigned_to,omitempty"`
	LastReturnedOn *time.Time `json:"last_returned_on,omitempty"`
}

// EmployeeStatus is the employment state of an employee.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

type Employee struct {
	ID         uuid.UUID      `json:"id"`
	FullName   string         `json:"full_name"`
	JobTitle   string         `json:"job_title"`
	Department string         `json:"department"`
	Location   string         `json:"location"`
	Company    string         `json:"company"`
	Status     EmployeeStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (e Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

// DocumentKind identifies the paperwork generated for an assignment event.
type DocumentKind string

const (
	DocumentKindDelivery DocumentKind = "delivery"
	DocumentKindReturn   DocumentKind = "return"
)

// Assignment records a device being held by an employee. A nil ReturnedOn
// means the assignment is open and the device is currently with the employee.
type Assignment struct {
	ID             uuid.UUID  `json:"id"`
	DeviceID       uuid.UUID  `json:"device_id"`
	EmployeeID     uuid.UUID  `json:"employee_id"`
	AssignedOn     time.Time  `json:"assigned_on"`
	ReturnedOn     *time.Time `json:"returned_on,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	DeliveryActKey *string    `json:"delivery_act_key,omitempty"`
	ReturnActKey   *string    `json:"return_act_key,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a Assignment) IsActive() bool {
	return a.ReturnedOn == nil
}

// DaysAssigned reports how many whole days the device has been held,
// counting up to the return date or to now for an open assignment.
func (a Assignment) DaysAssigned(now time.Time) int {
	end := now
	if a.ReturnedOn != nil {
		end = *a.ReturnedOn
	}
	return int(end.Sub(a.AssignedOn).Hours() / 24)
}

// DocumentKey returns the stored artifact key for the given document kind.
func (a Assignment) DocumentKey(kind DocumentKind) *string {
	if kind == DocumentKindReturn {
		return a.ReturnActKey
	}
	return a.DeliveryActKey
}

// AssignmentDetail joins an assignment with the device and employee it
// references, plus derived display fields.
type AssignmentDetail struct {
	Assignment
	Employee Employee `json:"employee"`
	Device   Device   `json:"device"`
}

// MarshalJSON adds the derived is_active and days_assigned fields to the
// serialized detail.
func (d AssignmentDetail) MarshalJSON() ([]byte, error) {
	type detail AssignmentDetail
	return json.Marshal(struct {
		detail
		IsActive     bool `json:"is_active"`
		DaysAssigned int  `json:"days_assigned"`
	}{
		detail:       detail(d),
		IsActive:     d.IsActive(),
		DaysAssigned: d.DaysAssigned(time.Now().UTC()),
	})
}

type Plan struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MonthlyCost float64   `json:"monthly_cost"`
	Description string    `json:"description,omitempty"`
}

// Role determines what a system user may do. Devices, employees, plans and
// assignments are writable by admin and hr; retirement and user management
// are admin only; the remaining roles are read only.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleSupervisor Role = "supervisor"
	RoleAccounting Role = "accounting"
	RoleAudit      Role = "audit"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleSupervisor, RoleAccounting, RoleAudit:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) CanEdit() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.Role)
}
