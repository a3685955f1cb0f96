package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTagCorrection(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   []string
		wantOK bool
	}{
		{"cambia a lista", "cambia la etiqueta a Recetas, Ideas", []string{"Recetas", "Ideas"}, true},
		{"cambia con complemento", "Cambia las etiquetas de esa nota a Trabajo y Reuniones", []string{"Trabajo", "Reuniones"}, true},
		{"cambia por", "cámbiale la etiqueta por Viajes", []string{"Viajes"}, true},
		{"deberia ser con acento", "debería ser Salud", []string{"Salud"}, true},
		{"deberia ser sin acento", "no, deberia ser Finanzas, Hogar.", []string{"Finanzas", "Hogar"}, true},
		{"etiqueta con dos puntos", "Etiquetas: viajes, ideas", []string{"viajes", "ideas"}, true},
		{"etiqueta es", "la etiqueta es Proyectos", []string{"Proyectos"}, true},
		{"categoria", "la categoría es Lecturas y Libros", []string{"Lecturas", "Libros"}, true},
		{"comillas", `etiqueta "Recetas"`, []string{"Recetas"}, true},
		{"sin correccion", "no entiendo", nil, false},
		{"vacio", "   ", nil, false},
		{"patron sin etiquetas", "cambia la etiqueta a , y ,", nil, false},
		{"deberia ser sin valor", "debería ser", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTagCorrection(tt.text, "Receta de pasta")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.NewTags)
				assert.Equal(t, "Receta de pasta", got.NoteTitle)
			} else {
				assert.Nil(t, got.NewTags)
			}
		})
	}
}

func TestParseTagCorrection_FirstPatternWins(t *testing.T) {
	// matches both the "cambia" and the "debería ser" shapes
	got, ok := ParseTagCorrection("cambia la etiqueta a Ideas, debería ser Ideas", "")
	assert.True(t, ok)
	assert.Equal(t, []string{"Ideas", "debería ser Ideas"}, got.NewTags)
}
