package search

import "strings"

// Synonyms maps a domain term to related terms that should also find a note.
type Synonyms map[string][]string

var defaultSynonyms = Synonyms{
	"receta":     {"cocinar", "preparar", "ingredientes", "cocina"},
	"cocinar":    {"receta", "preparar", "cocina"},
	"pasta":      {"espagueti", "espaguetis", "fideos", "macarrones", "tallarines"},
	"espagueti":  {"pasta", "fideos"},
	"espaguetis": {"pasta", "fideos"},
	"fideos":     {"pasta", "espagueti"},
	"comida":     {"receta", "cocina", "plato", "almuerzo", "cena"},
	"trabajo":    {"proyecto", "reunión", "oficina", "tarea"},
	"reunión":    {"junta", "meeting", "llamada"},
	"reunion":    {"junta", "meeting", "llamada"},
	"idea":       {"ocurrencia", "proyecto", "plan"},
	"compra":     {"supermercado", "lista", "mercado"},
	"comprar":    {"compra", "supermercado", "lista"},
	"viaje":      {"vacaciones", "vuelo", "hotel", "destino"},
	"vacaciones": {"viaje", "vuelo", "hotel"},
	"libro":      {"lectura", "leer", "novela"},
	"leer":       {"libro", "lectura", "novela"},
	"película":   {"cine", "serie", "ver"},
	"pelicula":   {"cine", "serie", "ver"},
	"ejercicio":  {"gimnasio", "entrenamiento", "deporte", "correr"},
	"deporte":    {"ejercicio", "gimnasio", "entrenamiento"},
	"salud":      {"médico", "doctor", "cita", "medicina"},
	"médico":     {"doctor", "salud", "cita"},
	"dinero":     {"gasto", "presupuesto", "pago", "finanzas"},
	"gasto":      {"dinero", "presupuesto", "pago"},
	"música":     {"canción", "disco", "álbum"},
	"musica":     {"canción", "disco", "álbum"},
	"tarea":      {"pendiente", "hacer", "trabajo"},
	"pendiente":  {"tarea", "hacer"},
}

// DefaultSynonyms returns a copy of the built-in table.
func DefaultSynonyms() Synonyms {
	out := make(Synonyms, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// lookup falls back to the singular form for simple Spanish/English plurals.
func (s Synonyms) lookup(token string) []string {
	if related, ok := s[token]; ok {
		return related
	}
	if strings.HasSuffix(token, "es") {
		if related, ok := s[strings.TrimSuffix(token, "es")]; ok {
			return related
		}
	}
	if strings.HasSuffix(token, "s") {
		if related, ok := s[strings.TrimSuffix(token, "s")]; ok {
			return related
		}
	}
	return nil
}
