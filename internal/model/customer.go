package model

import (
	"fmt"
)

// Customer
// @Description Запись таблицы customer, которая проходит через канал.
type Customer struct {
	ID   int    `db:"id"   json:"id"   example:"3"`     // ID клиента
	Name string `db:"name" json:"name" example:"Grace"` // Имя клиента
} // @Name Customer

func NewCustomer(id int, name string) Customer {
	return Customer{ID: id, Name: name}
}

func (c Customer) String() string {
	return fmt.Sprintf("Customer[id=%d, name=%s]", c.ID, c.Name)
}

// CustomerRequest
// @Description Тело POST /customers. Оба поля обязательны.
type CustomerRequest struct {
	ID   *int    `binding:"required" json:"id"   example:"3"`     // ID клиента
	Name *string `binding:"required" json:"name" example:"Grace"` // Имя клиента
} // @Name CustomerRequest

// Customer expects a request that already passed binding.
func (r CustomerRequest) Customer() Customer {
	return NewCustomer(*r.ID, *r.Name)
}
