package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugFromName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Padaria do João", want: "padaria-do-joao"},
		{in: "Açougue São José", want: "acougue-sao-jose"},
		{in: "  Loja   Central  ", want: "loja-central"},
		{in: "Café & Cia.", want: "cafe-cia"},
		{in: "Loja123", want: "loja123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugFromName(tt.in), "SlugFromName(%q)", tt.in)
	}
}

func TestStoreValidate(t *testing.T) {
	store := &Store{
		UUID:            "074b2a10-55a1-4f1c-b93e-43a38bb6f8a1",
		CNPJ:            "12345678000199",
		Name:            "Padaria do João",
		Slug:            "padaria-do-joao",
		ResponsibleName: "João Silva",
		Email:           "joao@padaria.com.br",
	}
	assert.NoError(t, store.Validate())

	store.Email = "not-an-email"
	assert.Error(t, store.Validate())
}

func TestValidStatusTransition(t *testing.T) {
	assert.True(t, ValidStatusTransition(ORDER_STATUS_REALIZADO, ORDER_STATUS_PREPARO))
	assert.True(t, ValidStatusTransition(ORDER_STATUS_ENTREGA, ORDER_STATUS_ENTREGUE))
	assert.False(t, ValidStatusTransition(ORDER_STATUS_REALIZADO, ORDER_STATUS_ENTREGA))
	assert.False(t, ValidStatusTransition(ORDER_STATUS_ENTREGUE, ORDER_STATUS_REALIZADO))
}
