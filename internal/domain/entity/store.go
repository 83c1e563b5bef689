package entity

import "time"

// Store tienda o sede desde la cual se factura y se descuenta inventario.
type Store struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
