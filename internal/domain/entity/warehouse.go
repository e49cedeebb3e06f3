package entity

import "time"

// Warehouse representa una bodega o almacén del taller donde se guarda inventario.
type Warehouse struct {
	ID        string
	Name      string
	Capacity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
