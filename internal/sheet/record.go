package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical field names for an order row. The remote sheets spell their
// columns differently per endpoint, so everything above the client layer
// talks in these names only.
const (
	FieldOrderID      = "ID Orden"
	FieldStatus       = "Estado"
	FieldDesigner     = "Diseñadores"
	FieldCourier      = "Repartidor"
	FieldClientName   = "Nombre"
	FieldClientLast   = "Apellido"
	FieldRequiredDate = "Fecha Requerida"
	FieldWorkType     = "Tipo de Trabajo"
	FieldMaterial     = "Material"
	FieldCost         = "Costo"
	FieldACuenta      = "A-cuenta"
	FieldCreatedAt    = "Timestamp"
)

// Order status enumeration as tracked on the sheet.
const (
	StatusRecepcion   = "Recepcion"
	StatusDiseno      = "Diseño"
	StatusFresado     = "Fresado"
	StatusSinterizado = "Sinterizado"
	StatusTerminado   = "Terminado"
	StatusEntregado   = "Entregado"
)

// OrderStatuses lists the valid states in pipeline order.
var OrderStatuses = []string{
	StatusRecepcion,
	StatusDiseno,
	StatusFresado,
	StatusSinterizado,
	StatusTerminado,
	StatusEntregado,
}

// ValidStatus reports whether s is one of the tracked order states.
func ValidStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// fieldAliases maps each canonical field to the column spellings observed
// across the different sheet endpoints, in resolution priority order.
// Kept as one table instead of fallback chains scattered through callers.
var fieldAliases = map[string][]string{
	FieldOrderID:      {"ID Orden", "idOrden", "id"},
	FieldStatus:       {"Estado", "estado", "status"},
	FieldDesigner:     {"Diseñadores", "diseñador", "disenador"},
	FieldCourier:      {"Repartidor", "repartidor"},
	FieldClientName:   {"Nombre", "nombre"},
	FieldClientLast:   {"Apellido", "apellido"},
	FieldRequiredDate: {"Fecha Requerida", "fechaRequerida", "fecha_requerida"},
	FieldWorkType:     {"Tipo de Trabajo", "tipoTrabajo", "tipo_de_trabajo"},
	FieldMaterial:     {"Material", "material"},
	FieldCost:         {"Costo", "costo"},
	FieldACuenta:      {"A-cuenta", "aCuenta", "a_cuenta", "Acuenta"},
	FieldCreatedAt:    {"Timestamp", "timestamp", "Marca temporal"},
}

// Record is one order row as the sheet returned it: an open mapping, not a
// closed struct, because columns come and go per endpoint.
type Record map[string]any

// Get resolves a canonical field against the row's actual column spellings.
func (r Record) Get(field string) any {
	if v, ok := r[field]; ok {
		return v
	}
	for _, alias := range fieldAliases[field] {
		if v, ok := r[alias]; ok {
			return v
		}
	}
	return nil
}

// GetString resolves a field and coerces it to its string form.
func (r Record) GetString(field string) string {
	switch v := r.Get(field).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// Sheet numerics arrive as float64 through encoding/json.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// GetFloat resolves a field and coerces it to a number, 0 when absent.
func (r Record) GetFloat(field string) float64 {
	switch v := r.Get(field).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(v, "$")), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Set writes a canonical field, clearing any aliased spelling so later
// resolution sees one value.
func (r Record) Set(field string, value any) {
	for _, alias := range fieldAliases[field] {
		if alias != field {
			delete(r, alias)
		}
	}
	r[field] = value
}

// ID returns the record key ("ORD-####").
func (r Record) ID() string {
	return r.GetString(FieldOrderID)
}

// Clone returns a shallow copy of the row.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NormalizeOrderID turns user search input into the sheet's key format:
// a bare number is zero-padded into ORD-####, anything else passes through.
func NormalizeOrderID(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	if n, err := strconv.Atoi(s); err == nil {
		return fmt.Sprintf("ORD-%04d", n)
	}
	return s
}
