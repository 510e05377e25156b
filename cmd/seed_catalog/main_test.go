package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `kind,a,b,c,d,e,f,g
branch,Centro,Calle 10 # 5-20
branch,Norte,
product,Centro,SKU-1,Arroz 500g,40,5,"1200,50",1800
product,,SKU-2,Bolsa,0,0,50,0
account,client,Tienda D'Luis,3001234567,"150000,00"
account,supplier,Distribuidora,,
`

func TestParseCatalog(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, cat.Branches, 2)
	assert.Equal(t, "Calle 10 # 5-20", cat.Branches[0].Address)

	require.Len(t, cat.Products, 2)
	assert.Equal(t, "Centro", cat.Products[0].Branch)
	assert.Equal(t, int64(40), cat.Products[0].Quantity)
	assert.Equal(t, "1200.50", cat.Products[0].PurchasePrice.StringFixed(2))
	assert.Empty(t, cat.Products[1].Branch)

	require.Len(t, cat.Accounts, 2)
	assert.Equal(t, "150000.00", cat.Accounts[0].OpeningBalance.StringFixed(2))
	assert.True(t, cat.Accounts[1].OpeningBalance.IsZero())
}

func TestParseCatalog_Errores(t *testing.T) {
	cases := map[string]string{
		"sucursal no declarada": "product,Sur,SKU-1,Arroz,1,0,1,1\n",
		"cantidad negativa":     "product,,SKU-1,Arroz,-1,0,1,1\n",
		"columnas faltantes":    "product,,SKU-1,Arroz\n",
		"tipo de cuenta":        "account,partner,X\n",
		"registro desconocido":  "warehouse,X\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestDecodeInput_Latin1(t *testing.T) {
	// "Pañal" en ISO-8859-1
	raw := []byte("branch,Pa\xf1al,\n")
	b, err := io.ReadAll(decodeInput(raw))
	require.NoError(t, err)
	assert.Equal(t, "branch,Pañal,\n", string(b))

	b, err = io.ReadAll(decodeInput([]byte("\xef\xbb\xbfbranch,Ñ,\n")))
	require.NoError(t, err)
	assert.Equal(t, "branch,Ñ,\n", string(b))
}

func TestWriteSQL(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, cat))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "-- Catálogo inicial"))
	assert.Contains(t, out, "(SELECT id FROM branches WHERE name = 'Centro' ORDER BY id LIMIT 1), 'SKU-1', 'Arroz 500g', 40, 40, 5, 1200.50, 1800.00)")
	assert.Contains(t, out, "VALUES (NULL, 'SKU-2'")
	assert.Contains(t, out, "'Tienda D''Luis'")
	assert.True(t, strings.HasSuffix(out, "COMMIT;\n"))
}
