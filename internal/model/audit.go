package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionUpdateOrderStatus   = "UPDATE_ORDER_STATUS"
	ActionUpdateOrderDesigner = "UPDATE_ORDER_DESIGNER"
	ActionUpdateOrderCourier  = "UPDATE_ORDER_COURIER"
	ActionUpdateOrderACuenta  = "UPDATE_ORDER_ACUENTA"

	ActionCreateEvent     = "CREATE_EVENT"
	ActionUpdateEvent     = "UPDATE_EVENT"
	ActionDeleteEvent     = "DELETE_EVENT"
	ActionCreatePendiente = "CREATE_PENDIENTE"
	ActionCreateEvidencia = "CREATE_EVIDENCIA"
	ActionCreateIngreso   = "CREATE_INGRESO"
	ActionCreateGasto     = "CREATE_GASTO"
)

// AuditLog tracks Who, What, and When for every mutation the dashboard makes,
// including field patches pushed to the remote sheets
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"` // Order key (ORD-####) or owned-entity uuid
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the change
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
