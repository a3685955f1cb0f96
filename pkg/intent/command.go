package intent

import (
	"strings"
)

const HelpReply = "Puedo guardar y buscar tus notas. Escríbeme con naturalidad, por ejemplo:\n" +
	"• \"Guarda una nota: receta de pasta con tomate\"\n" +
	"• \"¿Qué notas tengo sobre viajes?\"\n" +
	"• \"Muéstrame las notas con etiqueta Recetas\"\n\n" +
	"Atajos: /buscar <texto>, /etiqueta <nombre>, /recientes, /contar [etiqueta], /ayuda"

// ParseCommand resolves slash commands without asking the classifier.
// Supported:
// /start, /ayuda, /help -> help text
// /buscar <q> -> keyword query
// /etiqueta <t> -> tag query
// /recientes -> most recent notes
// /contar [t] -> counts, optionally for one tag
// Unknown commands and commands missing a required argument report false.
func ParseCommand(text string) (Intent, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return nil, false
	}

	name, arg := splitCommand(trimmed[1:])

	switch name {
	case "start", "ayuda", "help":
		return Conversation{Reply: HelpReply}, true
	case "buscar", "search":
		if arg == "" {
			return nil, false
		}
		return Query{QueryType: QueryByKeyword, Parameter: arg}, true
	case "etiqueta", "tag":
		if arg == "" {
			return nil, false
		}
		return Query{QueryType: QueryByTag, Parameter: arg}, true
	case "recientes", "recent":
		return Query{QueryType: QueryRecent}, true
	case "contar", "count":
		return Query{QueryType: QueryCount, Parameter: arg}, true
	}
	return nil, false
}

// splitCommand separates "name@bot rest" into ("name", "rest").
func splitCommand(s string) (string, string) {
	name, rest := s, ""
	if idx := strings.IndexAny(s, " \t\n"); idx != -1 {
		name, rest = s[:idx], strings.TrimSpace(s[idx+1:])
	}
	if at := strings.Index(name, "@"); at != -1 {
		name = name[:at]
	}
	return strings.ToLower(name), rest
}
