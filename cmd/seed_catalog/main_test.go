package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestReadCatalog_DecodificaLatin1(t *testing.T) {
	src := "nombre;forma;concentracion;categoria;laboratorio;requiere_formula\n" +
		"Acetaminofén;Tableta;500 mg;Analgésicos;Genfar;no\n" +
		";Jarabe;;;;\n" +
		"Amoxicilina;Cápsula;500 mg;Antibióticos;Tecnoquímicas;sí\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := readCatalog(transform.NewReader(strings.NewReader(latin1), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, rows, 2, "las filas sin nombre se omiten")

	assert.Equal(t, "Acetaminofén", rows[0].name)
	assert.Equal(t, "Analgésicos", rows[0].category)
	assert.False(t, rows[0].requiresPrescription)
	assert.Equal(t, "Cápsula", rows[1].dosageForm)
	assert.True(t, rows[1].requiresPrescription)
}

func TestReadCatalog_ColumnasIncorrectas(t *testing.T) {
	_, err := readCatalog(strings.NewReader("a;b;c;d;e;f\nsolo;tres;columnas\n"))
	assert.Error(t, err)
}

func TestWriteSeed_IdempotenteYEscapado(t *testing.T) {
	rows := []medicineRow{
		{name: "Crema D'Arnica", category: "Tópicos"},
		{name: "Ibuprofeno", category: "Tópicos", company: "MK"},
	}
	var buf bytes.Buffer
	cats, comps := writeSeed(&buf, rows)

	assert.Equal(t, 1, cats)
	assert.Equal(t, 1, comps)
	sql := buf.String()
	assert.Contains(t, sql, "Crema D''Arnica")
	assert.Contains(t, sql, "ON CONFLICT (name) DO NOTHING")
	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO medicines"))
	assert.Contains(t, sql, "NULL", "sin laboratorio el company_id queda NULL")

	assert.Equal(t, stableID("medicine", "x"), stableID("medicine", "X"), "el ID no depende de mayúsculas")
}
