package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleettrack/internal/database"
	"fleettrack/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const defaultListLimit = 100

type PostgresRepository struct {
	db database.Database
}

func NewPostgresRepository(db database.Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// translateError converts driver-level uniqueness violations into domain
// errors. The partial unique index on open assignments doubles as the
// store-level arbiter against double-assigning a device.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "devices_serial_number_key":
			return model.ConflictError{Field: "serial number"}
		case "devices_imei_key":
			return model.ConflictError{Field: "IMEI"}
		case "devices_phone_number_key":
			return model.ConflictError{Field: "phone number"}
		case "uniq_open_assignment_per_device":
			return model.PreconditionError{Reason: "device is not available"}
		case "plans_name_key":
			return model.ConflictError{Field: "plan name"}
		case "users_username_key":
			return model.ConflictError{Field: "username"}
		case "users_email_key":
			return model.ConflictError{Field: "email"}
		default:
			return model.ConflictError{Field: pqErr.Constraint}
		}
	}
	return err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullUUID(u *uuid.UUID) uuid.NullUUID {
	if u == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *u, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func fromNullUUID(u uuid.NullUUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	return &u.UUID
}

//
// Devices
//

const deviceColumns = `id, brand, model, serial_number, imei, phone_number, plan_id,
	initial_cost, purchase_date, physical_condition, status, created_at, updated_at`

func scanDevice(row interface{ Scan(...any) error }) (model.Device, error) {
	var (
		device       model.Device
		serialNumber sql.NullString
		imei         sql.NullString
		phoneNumber  sql.NullString
		planID       uuid.NullUUID
	)
	err := row.Scan(&device.ID, &device.Brand, &device.Model, &serialNumber, &imei,
		&phoneNumber, &planID, &device.InitialCost, &device.PurchaseDate,
		&device.PhysicalCondition, &device.Status, &device.CreatedAt, &device.UpdatedAt)
	if err != nil {
		return model.Device{}, err
	}
	device.SerialNumber = fromNullString(serialNumber)
	device.IMEI = fromNullString(imei)
	device.PhoneNumber = fromNullString(phoneNumber)
	device.PlanID = fromNullUUID(planID)
	return device, nil
}

func (r *PostgresRepository) CreateDevice(ctx context.Context, device model.Device) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (`+deviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		device.ID, device.Brand, device.Model, nullString(device.SerialNumber),
		nullString(device.IMEI), nullString(device.PhoneNumber), nullUUID(device.PlanID),
		device.InitialCost, device.PurchaseDate, device.PhysicalCondition, device.Status,
		device.CreatedAt, device.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (r *PostgresRepository) GetDeviceByID(ctx context.Context, id uuid.UUID) (model.Device, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id)
	device, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Device{}, model.NotFoundError{Entity: "device", ID: id.String()}
		}
		return model.Device{}, err
	}
	return device, nil
}

func (r *PostgresRepository) ListDevices(ctx context.Context, params ListDevicesParams) ([]model.DeviceView, error) {
	query := `
		SELECT d.id, d.brand, d.model, d.serial_number, d.imei, d.phone_number, d.plan_id,
			d.initial_cost, d.purchase_date, d.physical_condition, d.status, d.created_at, d.updated_at,
			oe.full_name, pe.full_name, pa.returned_on
		FROM devices d
		LEFT JOIN assignments oa ON oa.device_id = d.id AND oa.returned_on IS NULL
		LEFT JOIN employees oe ON oe.id = oa.employee_id
		LEFT JOIN LATERAL (
			SELECT a.employee_id, a.returned_on
			FROM assignments a
			WHERE a.device_id = d.id AND a.returned_on IS NOT NULL
			ORDER BY a.returned_on DESC
			LIMIT 1
		) pa ON true
		LEFT JOIN employees pe ON pe.id = pa.employee_id`

	var (
		conditions []string
		args       []any
	)
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(d.brand ILIKE $%d OR d.model ILIKE $%d OR d.imei ILIKE $%d OR d.phone_number ILIKE $%d OR oe.full_name ILIKE $%d)",
			n, n, n, n, n))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY d.created_at DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []model.DeviceView{}
	for rows.Next() {
		var (
			view           model.DeviceView
			serialNumber   sql.NullString
			imei           sql.NullString
			phoneNumber    sql.NullString
			planID         uuid.NullUUID
			assignedTo     sql.NullString
			lastAssignedTo sql.NullString
			lastReturnedOn sql.NullTime
		)
		err := rows.Scan(&view.ID, &view.Brand, &view.Model, &serialNumber, &imei,
			&phoneNumber, &planID, &view.InitialCost, &view.PurchaseDate,
			&view.PhysicalCondition, &view.Status, &view.CreatedAt, &view.UpdatedAt,
			&assignedTo, &lastAssignedTo, &lastReturnedOn)
		if err != nil {
			return nil, err
		}
		view.SerialNumber = fromNullString(serialNumber)
		view.IMEI = fromNullString(imei)
		view.PhoneNumber = fromNullString(phoneNumber)
		view.PlanID = fromNullUUID(planID)
		view.AssignedTo = fromNullString(assignedTo)
		if view.AssignedTo == nil {
			view.LastAssignedTo = fromNullString(lastAssignedTo)
			view.LastReturnedOn = fromNullTime(lastReturnedOn)
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *PostgresRepository) ListAllDevices(ctx context.Context) ([]model.Device, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+deviceColumns+` FROM devices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := []model.Device{}
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

// UpdateDevice rewrites a device's descriptive fields. The lifecycle status
// column is deliberately not touched here; only the assignment ledger and
// RetireDevice move a device between states.
func (r *PostgresRepository) UpdateDevice(ctx context.Context, device model.Device) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE devices
		SET brand = $2, model = $3, serial_number = $4, imei = $5, phone_number = $6,
			plan_id = $7, initial_cost = $8, purchase_date = $9, physical_condition = $10,
			updated_at = $11
		WHERE id = $1`,
		device.ID, device.Brand, device.Model, nullString(device.SerialNumber),
		nullString(device.IMEI), nullString(device.PhoneNumber), nullUUID(device.PlanID),
		device.InitialCost, device.PurchaseDate, device.PhysicalCondition, device.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "device", ID: device.ID.String()}
	}
	return nil
}

// RetireDevice marks a device retired. The status guard makes the write the
// final arbiter: an assignment committed after the caller's read leaves the
// device assigned and the update touches zero rows.
func (r *PostgresRepository) RetireDevice(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE devices SET status = $2, updated_at = $3
		WHERE id = $1 AND status <> $4`,
		id, model.DeviceStatusRetired, time.Now(), model.DeviceStatusAssigned)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetDeviceByID(ctx, id); err != nil {
			return err
		}
		return model.PreconditionError{Reason: "device is currently assigned"}
	}
	return nil
}

func (r *PostgresRepository) CountDevicesByStatus(ctx context.Context) (map[model.DeviceStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM devices GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[model.DeviceStatus]int{
		model.DeviceStatusAvailable: 0,
		model.DeviceStatusAssigned:  0,
		model.DeviceStatusRetired:   0,
	}
	for rows.Next() {
		var (
			status model.DeviceStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

//
// Employees
//

const employeeColumns = `id, full_name, job_title, department, location, company, status, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (model.Employee, error) {
	var employee model.Employee
	err := row.Scan(&employee.ID, &employee.FullName, &employee.JobTitle, &employee.Department,
		&employee.Location, &employee.Company, &employee.Status, &employee.CreatedAt, &employee.UpdatedAt)
	return employee, err
}

func (r *PostgresRepository) CreateEmployee(ctx context.Context, employee model.Employee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		employee.ID, employee.FullName, employee.JobTitle, employee.Department,
		employee.Location, employee.Company, employee.Status, employee.CreatedAt, employee.UpdatedAt)
	return translateError(err)
}

func (r *PostgresRepository) GetEmployeeByID(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Employee{}, model.NotFoundError{Entity: "employee", ID: id.String()}
		}
		return model.Employee{}, err
	}
	return employee, nil
}

func (r *PostgresRepository) ListEmployees(ctx context.Context, params ListEmployeesParams) ([]model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`

	var (
		conditions []string
		args       []any
	)
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(full_name ILIKE $%d OR department ILIKE $%d OR company ILIKE $%d)", n, n, n))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY full_name ASC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []model.Employee{}
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (r *PostgresRepository) UpdateEmployee(ctx context.Context, employee model.Employee) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET full_name = $2, job_title = $3, department = $4, location = $5,
			company = $6, status = $7, updated_at = $8
		WHERE id = $1`,
		employee.ID, employee.FullName, employee.JobTitle, employee.Department,
		employee.Location, employee.Company, employee.Status, employee.UpdatedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "employee", ID: employee.ID.String()}
	}
	return nil
}

// DeleteEmployee removes an employee and their entire assignment history in
// one transaction. Devices still held through open assignments are put back
// to available first; deleting the rows alone would leave those devices
// stranded in the assigned state.
func (r *PostgresRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE devices SET status = $2, updated_at = $3
		WHERE status = $4 AND id IN (
			SELECT device_id FROM assignments WHERE employee_id = $1 AND returned_on IS NULL
		)`,
		id, model.DeviceStatusAvailable, time.Now(), model.DeviceStatusAssigned)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE employee_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "employee", ID: id.String()}
	}

	return tx.Commit()
}

func (r *PostgresRepository) CountEmployees(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count)
	return count, err
}

//
// Assignments
//

const assignmentColumns = `id, device_id, employee_id, assigned_on, returned_on, notes,
	delivery_act_key, return_act_key, created_at, updated_at`

func scanAssignment(row interface{ Scan(...any) error }) (model.Assignment, error) {
	var (
		assignment  model.Assignment
		returnedOn  sql.NullTime
		deliveryKey sql.NullString
		returnKey   sql.NullString
	)
	err := row.Scan(&assignment.ID, &assignment.DeviceID, &assignment.EmployeeID,
		&assignment.AssignedOn, &returnedOn, &assignment.Notes,
		&deliveryKey, &returnKey, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return model.Assignment{}, err
	}
	assignment.ReturnedOn = fromNullTime(returnedOn)
	assignment.DeliveryActKey = fromNullString(deliveryKey)
	assignment.ReturnActKey = fromNullString(returnKey)
	return assignment, nil
}

// CreateAssignment opens an assignment and flips the device to assigned as
// one atomic unit. The state-conditional device update and the partial
// unique index both stop a second concurrent create from succeeding.
func (r *PostgresRepository) CreateAssignment(ctx context.Context, assignment model.Assignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE devices SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		assignment.DeviceID, model.DeviceStatusAssigned, time.Now(), model.DeviceStatusAvailable)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.PreconditionError{Reason: "device is not available"}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO assignments (`+assignmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		assignment.ID, assignment.DeviceID, assignment.EmployeeID, assignment.AssignedOn,
		nullTime(assignment.ReturnedOn), assignment.Notes,
		nullString(assignment.DeliveryActKey), nullString(assignment.ReturnActKey),
		assignment.CreatedAt, assignment.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetAssignmentByID(ctx context.Context, id uuid.UUID) (model.Assignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id)
	assignment, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Assignment{}, model.NotFoundError{Entity: "assignment", ID: id.String()}
		}
		return model.Assignment{}, err
	}
	return assignment, nil
}

const assignmentDetailQuery = `
	SELECT a.id, a.device_id, a.employee_id, a.assigned_on, a.returned_on, a.notes,
		a.delivery_act_key, a.return_act_key, a.created_at, a.updated_at,
		e.id, e.full_name, e.job_title, e.department, e.location, e.company, e.status, e.created_at, e.updated_at,
		d.id, d.brand, d.model, d.serial_number, d.imei, d.phone_number, d.plan_id,
		d.initial_cost, d.purchase_date, d.physical_condition, d.status, d.created_at, d.updated_at
	FROM assignments a
	JOIN employees e ON e.id = a.employee_id
	JOIN devices d ON d.id = a.device_id`

func scanAssignmentDetail(row interface{ Scan(...any) error }) (model.AssignmentDetail, error) {
	var (
		detail       model.AssignmentDetail
		returnedOn   sql.NullTime
		deliveryKey  sql.NullString
		returnKey    sql.NullString
		serialNumber sql.NullString
		imei         sql.NullString
		phoneNumber  sql.NullString
		planID       uuid.NullUUID
	)
	err := row.Scan(&detail.ID, &detail.DeviceID, &detail.EmployeeID, &detail.AssignedOn,
		&returnedOn, &detail.Notes, &deliveryKey, &returnKey, &detail.CreatedAt, &detail.UpdatedAt,
		&detail.Employee.ID, &detail.Employee.FullName, &detail.Employee.JobTitle,
		&detail.Employee.Department, &detail.Employee.Location, &detail.Employee.Company,
		&detail.Employee.Status, &detail.Employee.CreatedAt, &detail.Employee.UpdatedAt,
		&detail.Device.ID, &detail.Device.Brand, &detail.Device.Model, &serialNumber, &imei,
		&phoneNumber, &planID, &detail.Device.InitialCost, &detail.Device.PurchaseDate,
		&detail.Device.PhysicalCondition, &detail.Device.Status,
		&detail.Device.CreatedAt, &detail.Device.UpdatedAt)
	if err != nil {
		return model.AssignmentDetail{}, err
	}
	detail.ReturnedOn = fromNullTime(returnedOn)
	detail.DeliveryActKey = fromNullString(deliveryKey)
	detail.ReturnActKey = fromNullString(returnKey)
	detail.Device.SerialNumber = fromNullString(serialNumber)
	detail.Device.IMEI = fromNullString(imei)
	detail.Device.PhoneNumber = fromNullString(phoneNumber)
	detail.Device.PlanID = fromNullUUID(planID)
	return detail, nil
}

func (r *PostgresRepository) GetAssignmentDetail(ctx context.Context, id uuid.UUID) (model.AssignmentDetail, error) {
	row := r.db.QueryRowContext(ctx, assignmentDetailQuery+` WHERE a.id = $1`, id)
	detail, err := scanAssignmentDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AssignmentDetail{}, model.NotFoundError{Entity: "assignment", ID: id.String()}
		}
		return model.AssignmentDetail{}, err
	}
	return detail, nil
}

func (r *PostgresRepository) ListAssignments(ctx context.Context, params ListAssignmentsParams) ([]model.AssignmentDetail, error) {
	query := assignmentDetailQuery

	var (
		conditions []string
		args       []any
	)
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(e.full_name ILIKE $%d OR d.brand ILIKE $%d OR d.model ILIKE $%d OR d.imei ILIKE $%d OR d.phone_number ILIKE $%d)",
			n, n, n, n, n))
	}
	if params.DeviceID != nil {
		args = append(args, *params.DeviceID)
		conditions = append(conditions, fmt.Sprintf("a.device_id = $%d", len(args)))
	}
	if params.EmployeeID != nil {
		args = append(args, *params.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if params.ActiveOnly {
		conditions = append(conditions, "a.returned_on IS NULL")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY a.assigned_on DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []model.AssignmentDetail{}
	for rows.Next() {
		detail, err := scanAssignmentDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}

// CloseAssignment sets the return date and frees the device atomically. The
// returned_on IS NULL guard makes a second close a precondition failure even
// when two closes race.
func (r *PostgresRepository) CloseAssignment(ctx context.Context, id uuid.UUID, returnedOn time.Time, notes string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE assignments SET returned_on = $2, notes = $3, updated_at = $4
		WHERE id = $1 AND returned_on IS NULL`,
		id, returnedOn, notes, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.PreconditionError{Reason: "assignment already returned"}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE devices SET status = $2, updated_at = $3
		WHERE status = $4 AND id = (SELECT device_id FROM assignments WHERE id = $1)`,
		id, model.DeviceStatusAvailable, time.Now(), model.DeviceStatusAssigned)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) SetAssignmentDocumentKey(ctx context.Context, id uuid.UUID, kind model.DocumentKind, key string) error {
	column := "delivery_act_key"
	if kind == model.DocumentKindReturn {
		column = "return_act_key"
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE assignments SET `+column+` = $2, updated_at = $3 WHERE id = $1`,
		id, key, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "assignment", ID: id.String()}
	}
	return nil
}

//
// Plans
//

func (r *PostgresRepository) CreatePlan(ctx context.Context, plan model.Plan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plans (id, name, monthly_cost, description) VALUES ($1, $2, $3, $4)`,
		plan.ID, plan.Name, plan.MonthlyCost, plan.Description)
	return translateError(err)
}

func (r *PostgresRepository) GetPlanByID(ctx context.Context, id uuid.UUID) (model.Plan, error) {
	var plan model.Plan
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_cost, description FROM plans WHERE id = $1`, id).
		Scan(&plan.ID, &plan.Name, &plan.MonthlyCost, &plan.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Plan{}, model.NotFoundError{Entity: "plan", ID: id.String()}
		}
		return model.Plan{}, err
	}
	return plan, nil
}

func (r *PostgresRepository) ListPlans(ctx context.Context) ([]model.Plan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, monthly_cost, description FROM plans ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := []model.Plan{}
	for rows.Next() {
		var plan model.Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.MonthlyCost, &plan.Description); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *PostgresRepository) UpdatePlan(ctx context.Context, plan model.Plan) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE plans SET name = $2, monthly_cost = $3, description = $4, updated_at = $5
		WHERE id = $1`,
		plan.ID, plan.Name, plan.MonthlyCost, plan.Description, time.Now())
	if err != nil {
		return translateError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "plan", ID: plan.ID.String()}
	}
	return nil
}

func (r *PostgresRepository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "plan", ID: id.String()}
	}
	return nil
}

//
// Users
//

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.CreatedAt, user.UpdatedAt)
	return translateError(err)
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.NotFoundError{Entity: "user", ID: id.String()}
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.NotFoundError{Entity: "user"}
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user model.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET username = $2, email = $3, password_hash = $4, role = $5, updated_at = $6
		WHERE id = $1`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.UpdatedAt)
	if err != nil {
		return translateError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "user", ID: user.ID.String()}
	}
	return nil
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.NotFoundError{Entity: "user", ID: id.String()}
	}
	return nil
}
