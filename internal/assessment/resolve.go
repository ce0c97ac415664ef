package assessment

import (
	"sort"
	"strings"
)

// Tier records which resolver stage matched a label.
type Tier int

const (
	TierNone Tier = iota
	TierExact
	TierContains
	TierKeyword
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierContains:
		return "contains"
	case TierKeyword:
		return "keyword"
	}
	return "none"
}

// aliases maps folded labels, as printed across report versions, to ids.
var aliases = map[string]CompetencyID{
	"MENTALIDAD AGIL":                    MentalidadAgil,
	"ADAPTABILIDAD":                      MentalidadAgil,
	"FOCO EN DATA":                       FocoData,
	"ANALISIS Y RESOLUCION DE PROBLEMAS": FocoData,
	"COMUNICACION DIGITAL":               ComunicacionDigital,
	"COMUNICACION EFECTIVA":              ComunicacionDigital,
	"LEARNING AGILITY":                   LearningAgility,
	"ESPIRITU EMPRENDEDOR":               LearningAgility,
	"COLABORACION REMOTA":                ColaboracionRemota,
	"TRABAJO EN EQUIPO":                  ColaboracionRemota,
	"MINDSET DIGITAL":                    MindsetDigital,
	"LIDERAZGO KONECTA":                  LiderazgoKonecta,
	"ENGAGEMENT":                         Engagement,
	"COMPROMISO LABORAL":                 Engagement,
	"CONFIANZA":                          Confianza,
	"INTEGRIDAD":                         Confianza,
	"EXPERIENCIA DEL CLIENTE":            ExperienciaCliente,
	"CX":                                 ExperienciaCliente,
	"ORIENTACION A RESULTADOS":           OrientacionResultados,
	"ORIENTACION A LOS RESULTADOS":       OrientacionResultados,
	"ORIENTACION A LOS RESUL TADOS":      OrientacionResultados,
	"ORIENTACION COMERCIAL":              OrientacionComercial,
	"MERCADO":                            OrientacionComercial,
	"PROSPECTIVA ESTRATEGICA":            ProspectivaEstrategica,
	"VISION ESTRATEGICA":                 ProspectivaEstrategica,
	"GESTION DEL CAMBIO":                 GestionCambio,
}

type aliasEntry struct {
	folded  string
	compact string
	id      CompetencyID
}

// aliasesBySize is the containment search order: longest alias first, ties
// broken alphabetically so the order is stable.
var aliasesBySize = func() []aliasEntry {
	out := make([]aliasEntry, 0, len(aliases))
	for k, id := range aliases {
		out = append(out, aliasEntry{folded: k, compact: compact(k), id: id})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].compact) != len(out[j].compact) {
			return len(out[i].compact) > len(out[j].compact)
		}
		return out[i].compact < out[j].compact
	})
	return out
}()

// keywordRule maps a set of required substrings to an id. An empty id ends
// the search without a match.
type keywordRule struct {
	require []string
	id      CompetencyID
}

var keywordRules = []keywordRule{
	{[]string{"MENTALIDAD", "AGIL"}, MentalidadAgil},
	{[]string{"FOCO", "DATA"}, FocoData},
	{[]string{"COMUNICACION", "DIGITAL"}, ComunicacionDigital},
	{[]string{"COMUNICACION"}, ""},
	{[]string{"LEARNING", "AGILITY"}, LearningAgility},
	{[]string{"COLABORACION"}, ColaboracionRemota},
	{[]string{"REMOTA"}, ColaboracionRemota},
	{[]string{"MINDSET", "DIGITAL"}, MindsetDigital},
	{[]string{"LIDERAZGO"}, LiderazgoKonecta},
	{[]string{"ENGAGEMENT"}, Engagement},
	{[]string{"CONFIANZA"}, Confianza},
	{[]string{"EXPERIENCIA"}, ExperienciaCliente},
	{[]string{"CLIENTE"}, ExperienciaCliente},
	{[]string{"RESUL"}, OrientacionResultados},
	{[]string{"MERCADO"}, OrientacionComercial},
	{[]string{"COMERCIAL"}, OrientacionComercial},
	{[]string{"PROSPECTIVA"}, ProspectivaEstrategica},
	{[]string{"ESTRATEGICA"}, ProspectivaEstrategica},
	{[]string{"GESTION", "CAMBIO"}, GestionCambio},
}

const (
	// shortAlias is the length below which an alias must match a whole word.
	shortAlias      = 4
	minReverseBytes = 6
)

// Resolve maps a free-text competency label to its canonical id. Stages run
// in order and the first one to match wins.
func Resolve(label string) (CompetencyID, Tier, bool) {
	folded := fold(label)
	if folded == "" {
		return "", TierNone, false
	}
	if id, ok := aliases[folded]; ok {
		return id, TierExact, true
	}
	if id, ok := resolveContains(folded); ok {
		return id, TierContains, true
	}
	if id, ok := resolveKeyword(compact(folded)); ok {
		return id, TierKeyword, true
	}
	return "", TierNone, false
}

func resolveContains(folded string) (CompetencyID, bool) {
	c := compact(folded)
	words := strings.Fields(folded)
	for _, a := range aliasesBySize {
		if len(a.compact) < shortAlias {
			if hasWord(words, a.folded) {
				return a.id, true
			}
			continue
		}
		if strings.Contains(c, a.compact) {
			return a.id, true
		}
	}
	// A single word is too ambiguous to match inside a longer alias.
	if len(words) < 2 || len(c) < minReverseBytes {
		return "", false
	}
	for _, a := range aliasesBySize {
		if strings.Contains(a.compact, c) {
			return a.id, true
		}
	}
	return "", false
}

// hasWord matches w against the label's words with surrounding parentheses
// removed, so "(CX)" matches "CX".
func hasWord(words []string, w string) bool {
	for _, x := range words {
		if strings.Trim(x, "()") == w {
			return true
		}
	}
	return false
}

func resolveKeyword(c string) (CompetencyID, bool) {
	for _, r := range keywordRules {
		if containsAll(c, r.require) {
			return r.id, r.id != ""
		}
	}
	return "", false
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
