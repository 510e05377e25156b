// seed_catalog genera un script SQL para cargar sucursales, productos y cuentas
// a partir de un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv y escribe seed_catalog.sql en el directorio actual.
//
// Formato (la primera columna indica el tipo de registro):
//
//	branch,<nombre>,<dirección>
//	product,<sucursal o vacío>,<sku>,<nombre>,<cantidad>,<stock mínimo>,<precio compra>,<precio venta>
//	account,<client|supplier>,<nombre>,<teléfono>,<saldo inicial>
//
// Acepta archivos UTF-8 o ISO-8859-1 (exportaciones de Excel).
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type branchRow struct {
	Name    string
	Address string
}

type productRow struct {
	Branch        string
	SKU           string
	Name          string
	Quantity      int64
	MinStock      int64
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
}

type accountRow struct {
	Type           string
	Name           string
	Phone          string
	OpeningBalance decimal.Decimal
}

type catalog struct {
	Branches []branchRow
	Products []productRow
	Accounts []accountRow
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := "seed_catalog.sql"
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	cat, err := parseCatalog(decodeInput(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d sucursales, %d productos, %d cuentas\n",
		outPath, len(cat.Branches), len(cat.Products), len(cat.Accounts))
}

// decodeInput convierte a UTF-8 los archivos exportados en Latin-1.
func decodeInput(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	cat := &catalog{}
	branches := map[string]bool{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		switch strings.ToLower(rec[0]) {
		case "branch":
			if len(rec) < 2 || rec[1] == "" {
				return nil, fmt.Errorf("línea %d: sucursal sin nombre", line)
			}
			b := branchRow{Name: rec[1]}
			if len(rec) > 2 {
				b.Address = rec[2]
			}
			branches[b.Name] = true
			cat.Branches = append(cat.Branches, b)
		case "product":
			p, err := parseProduct(rec)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
			if p.Branch != "" && !branches[p.Branch] {
				return nil, fmt.Errorf("línea %d: sucursal %q no declarada", line, p.Branch)
			}
			cat.Products = append(cat.Products, p)
		case "account":
			a, err := parseAccount(rec)
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
			cat.Accounts = append(cat.Accounts, a)
		case "", "kind", "tipo":
			// encabezado o fila vacía
		default:
			return nil, fmt.Errorf("línea %d: tipo de registro desconocido %q", line, rec[0])
		}
	}
	return cat, nil
}

func parseProduct(rec []string) (productRow, error) {
	if len(rec) < 8 {
		return productRow{}, fmt.Errorf("producto con %d columnas, se esperaban 8", len(rec))
	}
	p := productRow{Branch: rec[1], SKU: rec[2], Name: rec[3]}
	if p.SKU == "" || p.Name == "" {
		return productRow{}, errors.New("producto sin sku o nombre")
	}
	var err error
	if p.Quantity, err = parseCount(rec[4]); err != nil {
		return productRow{}, fmt.Errorf("cantidad: %w", err)
	}
	if p.MinStock, err = parseCount(rec[5]); err != nil {
		return productRow{}, fmt.Errorf("stock mínimo: %w", err)
	}
	if p.PurchasePrice, err = parseMoney(rec[6]); err != nil {
		return productRow{}, fmt.Errorf("precio compra: %w", err)
	}
	if p.SalePrice, err = parseMoney(rec[7]); err != nil {
		return productRow{}, fmt.Errorf("precio venta: %w", err)
	}
	return p, nil
}

func parseAccount(rec []string) (accountRow, error) {
	if len(rec) < 3 {
		return accountRow{}, fmt.Errorf("cuenta con %d columnas, se esperaban al menos 3", len(rec))
	}
	a := accountRow{Type: strings.ToLower(rec[1]), Name: rec[2]}
	if a.Type != "client" && a.Type != "supplier" {
		return accountRow{}, fmt.Errorf("tipo de cuenta inválido %q", rec[1])
	}
	if a.Name == "" {
		return accountRow{}, errors.New("cuenta sin nombre")
	}
	if len(rec) > 3 {
		a.Phone = rec[3]
	}
	if len(rec) > 4 && rec[4] != "" {
		v, err := decimal.NewFromString(strings.ReplaceAll(rec[4], ",", "."))
		if err != nil {
			return accountRow{}, fmt.Errorf("saldo inicial: %w", err)
		}
		a.OpeningBalance = v
	}
	return a, nil
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}

// parseMoney acepta coma decimal.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", d)
	}
	return d, nil
}

func writeSQL(w io.Writer, cat *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial (sucursales, productos, cuentas)\n")
	b.WriteString("-- Generado por cmd/seed_catalog\n\n")
	b.WriteString("BEGIN;\n\n")

	if len(cat.Branches) > 0 {
		b.WriteString("-- 1. Sucursales\n")
		for _, br := range cat.Branches {
			fmt.Fprintf(&b, "INSERT INTO branches (name, address) SELECT '%s', '%s'\n",
				escapeSQL(br.Name), escapeSQL(br.Address))
			fmt.Fprintf(&b, "WHERE NOT EXISTS (SELECT 1 FROM branches WHERE name = '%s');\n", escapeSQL(br.Name))
		}
		b.WriteString("\n")
	}

	if len(cat.Products) > 0 {
		b.WriteString("-- 2. Productos (el stock inicial es la línea base de conciliación)\n")
		for _, p := range cat.Products {
			branch := "NULL"
			if p.Branch != "" {
				branch = fmt.Sprintf("(SELECT id FROM branches WHERE name = '%s' ORDER BY id LIMIT 1)", escapeSQL(p.Branch))
			}
			b.WriteString("INSERT INTO products (branch_id, sku, name, quantity, initial_quantity, min_stock, purchase_price, sale_price)\n")
			fmt.Fprintf(&b, "VALUES (%s, '%s', '%s', %d, %d, %d, %s, %s)\n",
				branch, escapeSQL(p.SKU), escapeSQL(p.Name), p.Quantity, p.Quantity, p.MinStock,
				p.PurchasePrice.StringFixed(2), p.SalePrice.StringFixed(2))
			b.WriteString("ON CONFLICT DO NOTHING;\n")
		}
		b.WriteString("\n")
	}

	if len(cat.Accounts) > 0 {
		b.WriteString("-- 3. Cuentas\n")
		for _, a := range cat.Accounts {
			bal := a.OpeningBalance.StringFixed(2)
			fmt.Fprintf(&b, "INSERT INTO accounts (type, name, phone, opening_balance, balance) VALUES ('%s', '%s', '%s', %s, %s);\n",
				a.Type, escapeSQL(a.Name), escapeSQL(a.Phone), bal, bal)
		}
		b.WriteString("\n")
	}

	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
