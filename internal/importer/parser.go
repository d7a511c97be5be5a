package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Column layout (0-indexed) of the fuel supplier's monthly export.
// This is a wire format contract with the producer; do not reorder.
const (
	colDate          = 0
	colEstablishment = 4
	colAddress       = 5
	colLocality      = 6
	colProvince      = 7
	colDriverName    = 9
	colPlate         = 13
	colOdometer      = 14
	colReceiptNumber = 17
	colProductType   = 18
	colLiters        = 19
	colPricePerLiter = 20
	colTotalAmount   = 21
	colIVA           = 25
	colInvoiceNumber = 29
)

// Validation messages, surfaced verbatim to back-office users.
const (
	MsgInvalidDate   = "Fecha inválida"
	MsgMissingPlate  = "Patente faltante"
	MsgInvalidLiters = "Litros inválidos"
	MsgInvalidAmount = "Importe inválido"
)

// MsgVehicleNotFound names the offending plate so the review list is
// actionable without opening the source file.
func MsgVehicleNotFound(plate string) string {
	return "Vehículo no encontrado: " + plate
}

// VehicleRef is the slice of a vehicle the matcher needs.
type VehicleRef struct {
	ID             string
	PrimaryPlate   string
	SecondaryPlate string
}

// DriverRef is the slice of a driver the matcher needs.
type DriverRef struct {
	ID      string
	Name    string
	Company string
}

// ReferenceSet holds the vehicles and drivers loaded once per import
// session. It is read-only for the duration of the session.
type ReferenceSet struct {
	Vehicles []VehicleRef
	Drivers  []DriverRef
}

// NormalizePlate strips separators and uppercases so that "ab 123-cd"
// and "AB123CD" compare equal.
func NormalizePlate(plate string) string {
	plate = strings.ReplaceAll(plate, "-", "")
	plate = strings.ReplaceAll(plate, " ", "")
	return strings.ToUpper(strings.TrimSpace(plate))
}

// MatchVehicle resolves a normalized plate by exact equality against
// either plate of each vehicle. First match wins.
func (rs *ReferenceSet) MatchVehicle(plate string) (string, bool) {
	for _, v := range rs.Vehicles {
		if NormalizePlate(v.PrimaryPlate) == plate {
			return v.ID, true
		}
		if v.SecondaryPlate != "" && NormalizePlate(v.SecondaryPlate) == plate {
			return v.ID, true
		}
	}
	return "", false
}

// MatchDriver resolves a free-text driver name. Only drivers whose
// company affiliation contains the employer substring are considered,
// and the reference name must contain the row's name; both checks are
// case-insensitive. Resolution is advisory: a miss means "unknown
// driver", never a validation error.
func (rs *ReferenceSet) MatchDriver(name, employer string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	employer = strings.ToLower(employer)
	for _, d := range rs.Drivers {
		if !strings.Contains(strings.ToLower(d.Company), employer) {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), name) {
			return d.ID, true
		}
	}
	return "", false
}

// ParsedFuelRecord is the typed result of interpreting one raw row.
// Errors accumulates validation failures; an empty list makes the
// record eligible for commit.
type ParsedFuelRecord struct {
	Date             *time.Time `json:"date"`
	Establishment    string     `json:"establishment"`
	Address          string     `json:"address"`
	Locality         string     `json:"locality"`
	Province         string     `json:"province"`
	DriverName       string     `json:"driver_name"`
	VehiclePlate     string     `json:"vehicle_plate"`
	Odometer         *float64   `json:"odometer"`
	ReceiptNumber    string     `json:"receipt_number"`
	ProductType      string     `json:"product_type"`
	InvoiceNumber    string     `json:"invoice_number"`
	Liters           *float64   `json:"liters"`
	PricePerLiter    *float64   `json:"price_per_liter"`
	TotalAmount      *float64   `json:"total_amount"`
	IVA              *float64   `json:"iva"`
	MatchedVehicleID *string    `json:"matched_vehicle_id"`
	MatchedDriverID  *string    `json:"matched_driver_id"`
	Errors           []string   `json:"errors"`
}

// Eligible reports whether the record may be committed.
func (r *ParsedFuelRecord) Eligible() bool {
	return len(r.Errors) == 0
}

type RowParser struct {
	refs     *ReferenceSet
	employer string
}

func NewRowParser(refs *ReferenceSet, employer string) *RowParser {
	return &RowParser{refs: refs, employer: employer}
}

// ParseRows converts raw rows in source order. Rows with an empty plate
// cell are dropped, mirroring the reader's blank-row tolerance for rows
// handed in directly.
func (p *RowParser) ParseRows(rows []RawRow) []*ParsedFuelRecord {
	records := make([]*ParsedFuelRecord, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(cellString(row, colPlate)) == "" {
			continue
		}
		records = append(records, p.ParseRow(row))
	}
	return records
}

// ParseRow produces exactly one record. Field parsing never
// short-circuits: a row can carry an invalid date and a missing vehicle
// at the same time, and both errors are recorded.
func (p *RowParser) ParseRow(row RawRow) *ParsedFuelRecord {
	rec := &ParsedFuelRecord{
		Establishment: cellString(row, colEstablishment),
		Address:       cellString(row, colAddress),
		Locality:      cellString(row, colLocality),
		Province:      cellString(row, colProvince),
		DriverName:    cellString(row, colDriverName),
		ReceiptNumber: cellString(row, colReceiptNumber),
		ProductType:   cellString(row, colProductType),
		InvoiceNumber: cellString(row, colInvoiceNumber),
		Errors:        []string{},
	}

	if d, ok := parseCellDate(cellValue(row, colDate)); ok {
		rec.Date = &d
	} else {
		rec.Errors = append(rec.Errors, MsgInvalidDate)
	}

	rec.VehiclePlate = NormalizePlate(cellString(row, colPlate))
	if rec.VehiclePlate == "" {
		rec.Errors = append(rec.Errors, MsgMissingPlate)
	} else if id, ok := p.refs.MatchVehicle(rec.VehiclePlate); ok {
		rec.MatchedVehicleID = &id
	} else {
		rec.Errors = append(rec.Errors, MsgVehicleNotFound(rec.VehiclePlate))
	}

	if rec.DriverName != "" {
		if id, ok := p.refs.MatchDriver(rec.DriverName, p.employer); ok {
			rec.MatchedDriverID = &id
		}
	}

	rec.Odometer = parseCellNumber(cellValue(row, colOdometer))
	rec.Liters = parseCellNumber(cellValue(row, colLiters))
	rec.PricePerLiter = parseCellNumber(cellValue(row, colPricePerLiter))
	rec.TotalAmount = parseCellNumber(cellValue(row, colTotalAmount))
	rec.IVA = parseCellNumber(cellValue(row, colIVA))

	if rec.Liters == nil || *rec.Liters <= 0 {
		rec.Errors = append(rec.Errors, MsgInvalidLiters)
	}
	if rec.TotalAmount == nil || *rec.TotalAmount <= 0 {
		rec.Errors = append(rec.Errors, MsgInvalidAmount)
	}

	return rec
}

func cellValue(row RawRow, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func cellString(row RawRow, idx int) string {
	switch c := cellValue(row, idx).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return FormatDateTime(c)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

var ddmmyyyyPattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})(?:\s+(\d{2}):(\d{2}):(\d{2}))?$`)

var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006",
}

// excelEpoch is day zero of the spreadsheet serial date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseCellDate tries, in order: typed passthrough, the supplier's
// strict DD/MM/YYYY[ HH:MM:SS] form, generic layouts, and finally a
// spreadsheet serial number.
func parseCellDate(v any) (time.Time, bool) {
	switch c := v.(type) {
	case time.Time:
		if c.IsZero() {
			return time.Time{}, false
		}
		return c, true
	case float64:
		return fromSerial(c)
	case int:
		return fromSerial(float64(c))
	case string:
		s := strings.TrimSpace(c)
		if s == "" {
			return time.Time{}, false
		}
		if m := ddmmyyyyPattern.FindStringSubmatch(s); m != nil {
			return fromDayMonthYear(m)
		}
		for _, layout := range fallbackLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if serial, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
			return fromSerial(serial)
		}
	}
	return time.Time{}, false
}

func fromDayMonthYear(m []string) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	var hour, min, sec int
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		min, _ = strconv.Atoi(m[5])
		sec, _ = strconv.Atoi(m[6])
	}
	t := time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	// time.Date normalizes out-of-range components (31/02 rolls into
	// March); reject anything that moved.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year || t.Hour() != hour {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(serial float64) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	ms := serial * 24 * 60 * 60 * 1000
	return excelEpoch.Add(time.Duration(ms) * time.Millisecond), true
}

// FormatDateTime renders a date in the supplier's DD/MM/YYYY HH:MM:SS
// form.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// parseCellNumber parses a numeric cell, rewriting a comma decimal
// separator to a dot first. Unparseable or empty cells yield nil.
func parseCellNumber(v any) *float64 {
	switch c := v.(type) {
	case float64:
		f := c
		return &f
	case int:
		f := float64(c)
		return &f
	case string:
		s := strings.TrimSpace(c)
		if s == "" {
			return nil
		}
		s = strings.ReplaceAll(s, ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}
