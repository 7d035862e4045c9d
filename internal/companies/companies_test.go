package companies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry([]Company{
		{Code: "001", Name: "Empresa Alfa Ltda", TaxID: "11.111.111/0001-11", Aliases: []string{"ALFA"}},
		{Code: "002", Name: "Empresa Beta SA", TaxID: "22.222.222/0001-22"},
	})
}

func TestFindInText_ByTaxID(t *testing.T) {
	c := testRegistry().FindInText("Tomador: CNPJ 22.222.222/0001-22")
	require.NotNil(t, c)
	assert.Equal(t, "002", c.Code)
}

func TestFindInText_ByAlias(t *testing.T) {
	c := testRegistry().FindInText("cobrança para alfa filial centro")
	require.NotNil(t, c)
	assert.Equal(t, "001", c.Code)
}

func TestFindInText_NoMatch(t *testing.T) {
	assert.Nil(t, testRegistry().FindInText("outra empresa qualquer"))
	assert.Nil(t, testRegistry().FindInText(""))
}

func TestByCode(t *testing.T) {
	require.NotNil(t, testRegistry().ByCode("001"))
	assert.Nil(t, testRegistry().ByCode("999"))
}
