package document

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"fleettrack/internal/storage"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// Generator renders acts to PDF and stores them, returning the storage key.
type Generator struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGenerator(storage storage.Storage, logger *slog.Logger) *Generator {
	return &Generator{
		storage: storage,
		logger:  logger.With("component", "document"),
	}
}

func (g *Generator) GenerateDelivery(ctx context.Context, assignmentID uuid.UUID, snap DeliverySnapshot) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	writeTitle(pdf, "Equipment Delivery Act")

	writeSection(pdf, "Received by")
	writeField(pdf, "Employee", snap.EmployeeName)
	writeField(pdf, "Title", snap.EmployeeTitle)

	writeSection(pdf, "Issued by")
	writeField(pdf, "Responsible", snap.ResponsibleName)
	writeField(pdf, "Title", snap.ResponsibleTitle)

	writeSection(pdf, "Device")
	writeField(pdf, "Brand", snap.DeviceBrand)
	writeField(pdf, "Model", snap.DeviceModel)
	writeField(pdf, "IMEI", snap.DeviceIMEI)
	writeField(pdf, "Phone number", snap.PhoneNumber)
	writeField(pdf, "Condition", snap.DeviceCondition)
	writeField(pdf, "Assignment date", formatDate(snap.AssignedOn))

	writeSignatures(pdf, snap.EmployeeName, snap.ResponsibleName)

	return g.store(ctx, assignmentID, "delivery_act.pdf", pdf)
}

func (g *Generator) GenerateReturn(ctx context.Context, assignmentID uuid.UUID, snap ReturnSnapshot) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	writeTitle(pdf, "Equipment Return Act")

	writeSection(pdf, "Returned by")
	writeField(pdf, "Employee", snap.EmployeeName)
	writeField(pdf, "Title", snap.EmployeeTitle)

	writeSection(pdf, "Device")
	writeField(pdf, "Brand", snap.DeviceBrand)
	writeField(pdf, "Model", snap.DeviceModel)
	writeField(pdf, "Serial number", snap.DeviceSerial)
	writeField(pdf, "IMEI", snap.DeviceIMEI)
	writeField(pdf, "Assignment date", formatDate(snap.AssignedOn))
	writeField(pdf, "Return date", formatDate(snap.ReturnedOn))

	if snap.Notes != "" {
		writeSection(pdf, "Observations")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, snap.Notes, "", "L", false)
	}

	writeSignatures(pdf, snap.EmployeeName, "")

	return g.store(ctx, assignmentID, "return_act.pdf", pdf)
}

func (g *Generator) store(ctx context.Context, assignmentID uuid.UUID, filename string, pdf *fpdf.Fpdf) (string, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render pdf: %w", err)
	}

	key, err := g.storage.Store(ctx, assignmentID, filename, &buf, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}

	g.logger.Debug("Document generated", "assignment_id", assignmentID, "key", key)
	return key, nil
}

func writeTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeSection(pdf *fpdf.Fpdf, name string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, name, "B", 1, "L", false, 0, "")
}

func writeField(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		value = "N/A"
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func writeSignatures(pdf *fpdf.Fpdf, left, right string) {
	pdf.Ln(24)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(90, 7, "_________________________", "", 0, "C", false, 0, "")
	if right != "" {
		pdf.CellFormat(90, 7, "_________________________", "", 1, "C", false, 0, "")
		pdf.CellFormat(90, 7, left, "", 0, "C", false, 0, "")
		pdf.CellFormat(90, 7, right, "", 1, "C", false, 0, "")
	} else {
		pdf.Ln(7)
		pdf.CellFormat(90, 7, left, "", 1, "C", false, 0, "")
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
