// seed_catalog genera un script SQL para poblar categorías, laboratorios y medicamentos
// a partir de un CSV exportado del sistema anterior (ISO-8859-1, separado por ';').
//
// Columnas: nombre;forma;concentracion;categoria;laboratorio;requiere_formula
// La primera fila es el encabezado.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv del directorio actual y escribe seed_catalog.sql en la raíz del módulo.
// Los IDs son UUID v5 derivados del nombre: re-ejecutar el script no duplica filas.
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Namespace fijo para los UUID v5 del catálogo.
var catalogNamespace = uuid.MustParse("5d0c5b7e-2f0e-4f7a-9a44-6f1f3c2b8e11")

type medicineRow struct {
	name, dosageForm, strength, category, company string
	requiresPrescription                          bool
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	cats, comps := writeSeed(w, rows)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías, %d laboratorios, %d medicamentos\n", outPath, cats, comps, len(rows))
}

// readCatalog lee el CSV ya decodificado a UTF-8. Las filas sin nombre se omiten.
func readCatalog(r io.Reader) ([]medicineRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	var rows []medicineRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		rx, _ := strconv.ParseBool(normalizeBool(rec[5]))
		rows = append(rows, medicineRow{
			name:                 name,
			dosageForm:           strings.TrimSpace(rec[1]),
			strength:             strings.TrimSpace(rec[2]),
			category:             strings.TrimSpace(rec[3]),
			company:              strings.TrimSpace(rec[4]),
			requiresPrescription: rx,
		})
	}
	return rows, nil
}

// writeSeed escribe categorías y laboratorios únicos y luego los medicamentos.
func writeSeed(w io.Writer, rows []medicineRow) (categories, companies int) {
	catSet, compSet := map[string]struct{}{}, map[string]struct{}{}
	for _, r := range rows {
		if r.category != "" {
			catSet[r.category] = struct{}{}
		}
		if r.company != "" {
			compSet[r.company] = struct{}{}
		}
	}
	cats, comps := sortedKeys(catSet), sortedKeys(compSet)

	fmt.Fprint(w, "-- Catálogo de medicamentos\n-- Generado por cmd/seed_catalog\n\n")

	fmt.Fprint(w, "-- 1. Categorías\n")
	for _, c := range cats {
		fmt.Fprintf(w, "INSERT INTO medicine_categories (id, name) VALUES ('%s', '%s') ON CONFLICT (name) DO NOTHING;\n",
			stableID("category", c), escapeSQL(c))
	}

	fmt.Fprint(w, "\n-- 2. Laboratorios\n")
	for _, c := range comps {
		fmt.Fprintf(w, "INSERT INTO companies (id, name) VALUES ('%s', '%s') ON CONFLICT (name) DO NOTHING;\n",
			stableID("company", c), escapeSQL(c))
	}

	fmt.Fprint(w, "\n-- 3. Medicamentos\n")
	for _, r := range rows {
		fmt.Fprintf(w, "INSERT INTO medicines (id, name, dosage_form, strength, category_id, company_id, requires_prescription)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', %s, %s, %t)\n",
			stableID("medicine", r.name+"|"+r.dosageForm+"|"+r.strength),
			escapeSQL(r.name), escapeSQL(r.dosageForm), escapeSQL(r.strength),
			lookup("medicine_categories", r.category), lookup("companies", r.company),
			r.requiresPrescription)
		fmt.Fprint(w, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category_id = EXCLUDED.category_id, company_id = EXCLUDED.company_id;\n")
	}
	return len(cats), len(comps)
}

// lookup subconsulta por nombre, o NULL si el nombre está vacío.
func lookup(table, name string) string {
	if name == "" {
		return "NULL"
	}
	return fmt.Sprintf("(SELECT id FROM %s WHERE name = '%s')", table, escapeSQL(name))
}

func stableID(kind, name string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(kind+":"+strings.ToLower(name))).String()
}

func normalizeBool(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "s", "x", "1", "true":
		return "true"
	}
	return "false"
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
